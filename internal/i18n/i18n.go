package i18n

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Language represents a supported UI language
type Language string

const (
	// English language
	LanguageEnglish Language = "en"
	// Simplified Chinese language
	LanguageChinese Language = "zh"
)

// builtin holds the shipped translation tables
var builtin = map[Language]map[string]string{
	LanguageEnglish: {
		"menu.input_devices":  "Input Device",
		"menu.output_devices": "Output Device",
		"menu.no_devices":     "No devices",
		"menu.volume_up":      "Volume Up",
		"menu.volume_down":    "Volume Down",
		"menu.aspect_ratio":   "Aspect Ratio…",
		"menu.settings":       "Settings…",
		"menu.quit":           "Quit",
		"tooltip.app":         "Openterface",
		"tooltip.default":     "System default device",
	},
	LanguageChinese: {
		"menu.input_devices":  "输入设备",
		"menu.output_devices": "输出设备",
		"menu.no_devices":     "无可用设备",
		"menu.volume_up":      "增大音量",
		"menu.volume_down":    "减小音量",
		"menu.aspect_ratio":   "显示比例…",
		"menu.settings":       "设置…",
		"menu.quit":           "退出",
		"tooltip.app":         "Openterface",
		"tooltip.default":     "系统默认设备",
	},
}

// Translator resolves UI strings for the configured language
type Translator struct {
	mu              sync.RWMutex
	currentLanguage Language
	translations    map[Language]map[string]string
}

// NewTranslator creates a translator preloaded with the shipped tables
func NewTranslator(language Language) *Translator {
	tables := make(map[Language]map[string]string, len(builtin))
	for lang, entries := range builtin {
		table := make(map[string]string, len(entries))
		for k, v := range entries {
			table[k] = v
		}
		tables[lang] = table
	}

	return &Translator{
		currentLanguage: language,
		translations:    tables,
	}
}

// LoadTranslations merges translations from JSON data over the shipped table
func (t *Translator) LoadTranslations(language Language, data []byte) error {
	var overrides map[string]string
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to unmarshal translations: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	table := t.translations[language]
	if table == nil {
		table = make(map[string]string, len(overrides))
		t.translations[language] = table
	}
	for k, v := range overrides {
		table[k] = v
	}

	return nil
}

// SetLanguage sets the current language
func (t *Translator) SetLanguage(language Language) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentLanguage = language
}

// GetLanguage returns the current language
func (t *Translator) GetLanguage() Language {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentLanguage
}

// T translates a key in the current language, falling back to English and
// finally to the key itself
func (t *Translator) T(key string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if text, ok := t.translations[t.currentLanguage][key]; ok {
		return text
	}

	if t.currentLanguage != LanguageEnglish {
		if text, ok := t.translations[LanguageEnglish][key]; ok {
			return text
		}
	}

	return key
}

// TF translates a key and substitutes {name} placeholders
func (t *Translator) TF(key string, params map[string]string) string {
	text := t.T(key)

	for param, value := range params {
		text = strings.ReplaceAll(text, "{"+param+"}", value)
	}

	return text
}

// All returns a copy of the full table for the current language (the
// settings frontend fetches this once at load)
func (t *Translator) All() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]string, len(t.translations[t.currentLanguage]))
	for k, v := range t.translations[t.currentLanguage] {
		result[k] = v
	}
	return result
}
