package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/artemis-health/artemis/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTTL  = 7 * 24 * time.Hour
	RememberTTL = 30 * 24 * time.Hour

	cookiePurpose = "auth"
)

// ErrUnauthenticated wraps every reason a request has no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

var (
	errMissingToken   = errors.New("missing session token")
	errUnknownSession = errors.New("unknown session")
	errRevoked        = errors.New("session revoked")
	errExpired        = errors.New("session expired")
)

type Identity struct {
	UserID    uint
	SessionID string
	ExpiresAt time.Time
}

type Token struct {
	Value     string
	SessionID string
	ExpiresAt time.Time
	// Persistent is false for browser-session cookies.
	Persistent bool
}

type claims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

type Manager struct {
	store     Store
	codec     *Codec
	secretKey []byte
	log       logrus.FieldLogger
	events    *hub
	now       func() time.Time
}

type Option func(*Manager)

func WithLogger(log logrus.FieldLogger) Option {
	return func(manager *Manager) {
		if log != nil {
			manager.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(manager *Manager) {
		if now != nil {
			manager.now = now
		}
	}
}

func NewManager(store Store, secretKey []byte, options ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	codec, err := NewCodec(secretKey)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		store:     store,
		codec:     codec,
		secretKey: append([]byte(nil), secretKey...),
		log:       logrus.StandardLogger(),
		events:    newHub(),
		now:       time.Now,
	}
	for _, option := range options {
		option(manager)
	}
	return manager, nil
}

func (manager *Manager) Issue(ctx context.Context, userID uint, remember bool) (Token, error) {
	if userID == 0 {
		return Token{}, errors.New("issue session: missing user")
	}

	ttl := DefaultTTL
	if remember {
		ttl = RememberTTL
	}
	now := manager.now().UTC()
	row := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if pruner, ok := manager.store.(expiredPruner); ok {
		if err := pruner.DeleteExpired(ctx, userID, now); err != nil {
			manager.log.WithError(err).WithField("user_id", userID).Warn("prune expired sessions failed")
		}
	}
	if err := manager.store.Create(ctx, row); err != nil {
		return Token{}, fmt.Errorf("store session: %w", err)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        row.ID,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ExpiresAt: jwt.NewNumericDate(row.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}).SignedString(manager.secretKey)
	if err != nil {
		return Token{}, fmt.Errorf("sign session token: %w", err)
	}

	value, err := manager.codec.Seal(cookiePurpose, []byte(signed))
	if err != nil {
		return Token{}, err
	}

	manager.events.publish(Event{Kind: EventSignedIn, UserID: userID, SessionID: row.ID, At: now})
	return Token{Value: value, SessionID: row.ID, ExpiresAt: row.ExpiresAt, Persistent: remember}, nil
}

// Resolve never retries: a store failure is reported the same way as a missing cookie.
func (manager *Manager) Resolve(ctx context.Context, cookieValue string) (Identity, error) {
	cookieValue = strings.TrimSpace(cookieValue)
	if cookieValue == "" {
		return Identity{}, unauthenticated(errMissingToken)
	}
	if err := ctx.Err(); err != nil {
		return Identity{}, unauthenticated(err)
	}

	raw, err := manager.codec.Open(cookiePurpose, cookieValue)
	if err != nil {
		return Identity{}, unauthenticated(err)
	}

	parsed := &claims{}
	_, err = jwt.ParseWithClaims(string(raw), parsed, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return manager.secretKey, nil
	}, jwt.WithTimeFunc(manager.now), jwt.WithExpirationRequired())
	if errors.Is(err, jwt.ErrTokenExpired) {
		manager.publishExpired(parsed.UserID, parsed.ID)
		return Identity{}, unauthenticated(errExpired)
	}
	if err != nil {
		return Identity{}, unauthenticated(err)
	}
	if parsed.ID == "" || parsed.UserID == 0 {
		return Identity{}, unauthenticated(errUnknownSession)
	}

	row, found, err := manager.store.Find(ctx, parsed.ID)
	if err != nil {
		manager.log.WithError(err).WithField("session_id", parsed.ID).Warn("session lookup failed")
		return Identity{}, unauthenticated(err)
	}
	if !found || row.UserID != parsed.UserID {
		return Identity{}, unauthenticated(errUnknownSession)
	}
	if row.RevokedAt != nil {
		return Identity{}, unauthenticated(errRevoked)
	}
	if !row.Active(manager.now()) {
		manager.publishExpired(row.UserID, row.ID)
		return Identity{}, unauthenticated(errExpired)
	}

	return Identity{UserID: row.UserID, SessionID: row.ID, ExpiresAt: row.ExpiresAt}, nil
}

func (manager *Manager) Invalidate(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	row, found, err := manager.store.Find(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil
	}

	now := manager.now().UTC()
	if err := manager.store.Revoke(ctx, sessionID, now); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	manager.events.publish(Event{Kind: EventSignedOut, UserID: row.UserID, SessionID: sessionID, At: now})
	return nil
}

// InvalidateUser signs the user out everywhere, e.g. after a password reset.
func (manager *Manager) InvalidateUser(ctx context.Context, userID uint) (int, error) {
	now := manager.now().UTC()
	revoked, err := manager.store.RevokeAllForUser(ctx, userID, now)
	for _, sessionID := range revoked {
		manager.events.publish(Event{Kind: EventSignedOut, UserID: userID, SessionID: sessionID, At: now})
	}
	if err != nil {
		return len(revoked), fmt.Errorf("revoke sessions: %w", err)
	}
	return len(revoked), nil
}

// Subscribe registers fn for identity changes. The returned function must be
// called when the subscriber goes away; calling it more than once is safe.
func (manager *Manager) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	return manager.events.subscribe(fn)
}

func (manager *Manager) publishExpired(userID uint, sessionID string) {
	if userID == 0 || sessionID == "" {
		return
	}
	manager.events.publish(Event{Kind: EventExpired, UserID: userID, SessionID: sessionID, At: manager.now().UTC()})
}

func unauthenticated(cause error) error {
	return fmt.Errorf("%w: %v", ErrUnauthenticated, cause)
}
