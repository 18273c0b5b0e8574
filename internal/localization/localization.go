// Package localization provides functionality for internationalization (i18n).
// It loads translation strings from JSON files and provides a simple way to get
// localized strings for different languages.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"fairvio/backend/internal/config"
)

// Localizer manages the translations for the application.
// It holds a map of languages, each with its own map of translation keys and
// values. Lookups fall back to English and then to the raw key; a missing
// key is logged as a warning but is never fatal.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
	log          zerolog.Logger
}

// NewLocalizer creates and returns a new Localizer instance.
// It loads all translations from the provided directory path.
// The directory should contain JSON files named with the language code
// (e.g., "en.json").
func NewLocalizer(path string, log zerolog.Logger) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
		log:          log,
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read localization directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		filePath := filepath.Join(path, file.Name())

		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		l.translations[lang] = translations
	}

	if _, ok := l.translations[config.DefaultLanguage]; !ok {
		return nil, fmt.Errorf("localization: missing table for default language %q", config.DefaultLanguage)
	}

	return l, nil
}

// NewFromMaps builds a Localizer from in-memory tables. Used by tests.
func NewFromMaps(tables map[string]map[string]string, log zerolog.Logger) *Localizer {
	return &Localizer{translations: tables, log: log}
}

// T returns the localized string for a given key and language.
// An unsupported language or a missing key-language pair degrades to the
// English string; a key absent from every table comes back verbatim.
func (l *Localizer) T(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != config.DefaultLanguage {
		if enTranslations, ok := l.translations[config.DefaultLanguage]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}

	l.log.Warn().Str("key", key).Str("lang", lang).Msg("translation key not found")
	return key
}

// Func returns a single-argument lookup bound to lang, the shape page
// templates call.
func (l *Localizer) Func(lang string) func(string) string {
	return func(key string) string { return l.T(lang, key) }
}

// Languages returns the language codes that have a loaded table.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	langs := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		langs = append(langs, lang)
	}
	return langs
}

// Keys returns every key present in the table for lang.
func (l *Localizer) Keys(lang string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]string, 0, len(l.translations[lang]))
	for key := range l.translations[lang] {
		keys = append(keys, key)
	}
	return keys
}
