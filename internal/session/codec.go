package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	sealedVersion       = "v1"
	sealedPurposePrefix = "artemis.cookie."
)

var errInvalidSealedValue = errors.New("invalid sealed value")

// Codec encrypts cookie payloads with AES-GCM. The purpose string is bound as
// additional data so a value sealed for one cookie cannot be replayed in another.
type Codec struct {
	aead cipher.AEAD
}

func NewCodec(secretKey []byte) (*Codec, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("sealed cookie secret key is required")
	}

	key := sha256.Sum256(append([]byte("artemis.sealed-cookie.v1"), secretKey...))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cookie cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init cookie aead: %w", err)
	}
	return &Codec{aead: aead}, nil
}

func (codec *Codec) Seal(purpose string, plaintext []byte) (string, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return "", errors.New("sealed cookie purpose is required")
	}

	nonce := make([]byte, codec.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate cookie nonce: %w", err)
	}

	payload := codec.aead.Seal(nonce, nonce, plaintext, []byte(sealedPurposePrefix+purpose))
	return sealedVersion + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

func (codec *Codec) Open(purpose string, value string) ([]byte, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, errors.New("sealed cookie purpose is required")
	}

	version, encoded, found := strings.Cut(strings.TrimSpace(value), ".")
	if !found || version != sealedVersion || encoded == "" {
		return nil, errInvalidSealedValue
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errInvalidSealedValue
	}

	nonceSize := codec.aead.NonceSize()
	if len(payload) <= nonceSize {
		return nil, errInvalidSealedValue
	}
	plaintext, err := codec.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], []byte(sealedPurposePrefix+purpose))
	if err != nil {
		return nil, errInvalidSealedValue
	}
	return plaintext, nil
}
