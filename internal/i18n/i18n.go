package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	LangEN = "en"
	LangES = "es"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Locales returns the catalogs compiled into the binary.
func Locales() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		panic(err)
	}
	return sub
}

type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	merged          map[string]map[string]string
	supported       []string
}

// NewManager loads every <lang>.json in locales. English is required because
// it is the fallback for keys a catalog does not define.
func NewManager(defaultLanguage string, locales fs.FS) (*Manager, error) {
	manager := &Manager{
		locales: map[string]map[string]string{},
		merged:  map[string]map[string]string{},
	}

	entries, err := fs.ReadDir(locales, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		language := strings.TrimSuffix(strings.ToLower(entry.Name()), ".json")
		content, err := fs.ReadFile(locales, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}

		manager.locales[language] = messages
		manager.supported = append(manager.supported, language)
	}

	if _, ok := manager.locales[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
	}

	sort.Strings(manager.supported)
	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)

	for _, language := range manager.supported {
		merged := make(map[string]string, len(manager.locales[LangEN]))
		for key, value := range manager.locales[LangEN] {
			merged[key] = value
		}
		for key, value := range manager.locales[language] {
			if strings.TrimSpace(value) != "" {
				merged[key] = value
			}
		}
		manager.merged[language] = merged
	}
	return manager, nil
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	return append([]string(nil), manager.supported...)
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if manager.isSupported(normalized) {
		return normalized
	}
	return manager.defaultLanguage
}

func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	for _, part := range strings.Split(raw, ",") {
		token, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if normalized := normalizeLanguageTag(token); manager.isSupported(normalized) {
			return normalized
		}
	}
	return manager.defaultLanguage
}

// Messages returns the catalog for language with English filling the gaps.
// The map is shared; callers must not modify it.
func (manager *Manager) Messages(language string) map[string]string {
	return manager.merged[manager.NormalizeLanguage(language)]
}

func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.Messages(language)[key]; ok {
		return value
	}
	return key
}

func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

// ShortDate renders "Jan 2" in the catalog's month names and order.
func ShortDate(messages map[string]string, value time.Time) string {
	return fmt.Sprintf(lookup(messages, "date.short_format", "%[1]s %[2]d"), monthName(messages, value.Month()), value.Day())
}

// DayLabel renders "Mon, Jan 2" in the catalog's names and order.
func DayLabel(messages map[string]string, value time.Time) string {
	return fmt.Sprintf(
		lookup(messages, "date.day_format", "%[3]s, %[1]s %[2]d"),
		monthName(messages, value.Month()),
		value.Day(),
		lookup(messages, "date.weekday."+strconv.Itoa(int(value.Weekday())), value.Weekday().String()[:3]),
	)
}

func monthName(messages map[string]string, month time.Month) string {
	return lookup(messages, "date.month."+strconv.Itoa(int(month)), month.String()[:3])
}

func lookup(messages map[string]string, key string, fallback string) string {
	if value := strings.TrimSpace(messages[key]); value != "" {
		return value
	}
	return fallback
}

func (manager *Manager) isSupported(language string) bool {
	if language == "" {
		return false
	}
	_, ok := manager.locales[language]
	return ok
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	language, _, _ = strings.Cut(language, "-")
	return language
}
