// Package i18n provides internationalization support for the price service.
// It handles translation of user-facing messages and error messages.
// Hebrew is a first-class locale since the product data is Hebrew.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "he-IL,he;q=0.9,en;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		// Extract base language (e.g., "he" from "he-IL")
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(lang)
		// Validate it's a supported locale
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			// Error messages
			"error.invalid_request":      "Invalid request",
			"error.invalid_request_body": "Invalid request body",
			"error.internal_error":       "An unexpected error occurred",
			"error.unauthorized":         "Unauthorized",
			"error.invalid_credentials":  "User not registered",
			"error.api_key_required":     "API key is required",
			"error.invalid_api_key":      "Invalid API key",
			"error.forbidden":            "Forbidden",
			"error.not_found":            "Not found",
			"error.city_not_found":       "No stores found in this city",
			"error.no_complete_match":    "No single store carries all the requested items",
			"error.store_unavailable":    "Price data is temporarily unavailable, please try again",
			"error.rate_limit_exceeded":  "Too many requests, please try again later",
			"error.conflict":             "Conflict",
			"error.validation.cart":      "items: every line needs a name and a positive quantity",
			"error.validation.search":    "q and city must not be empty",
			"error.invalid_token":        "Invalid or expired token",
			"error.token_required":       "Authentication token is required",
			"error.timeout":              "Request timeout",

			// Success messages
			"success.cart_compared": "Cart comparison completed successfully",
		},
		"he": {
			// Error messages
			"error.invalid_request":      "בקשה לא תקינה",
			"error.invalid_request_body": "גוף הבקשה אינו תקין",
			"error.internal_error":       "אירעה שגיאה בלתי צפויה",
			"error.unauthorized":         "אין הרשאה",
			"error.invalid_credentials":  "משתמש אינו רשום",
			"error.api_key_required":     "נדרש מפתח API",
			"error.invalid_api_key":      "מפתח API שגוי",
			"error.forbidden":            "הגישה נדחתה",
			"error.not_found":            "לא נמצא",
			"error.city_not_found":       "לא נמצאו חנויות בעיר המבוקשת",
			"error.no_complete_match":    "אין חנות אחת שמוכרת את כל הפריטים המבוקשים",
			"error.store_unavailable":    "נתוני המחירים אינם זמינים כרגע, נסו שוב מאוחר יותר",
			"error.rate_limit_exceeded":  "יותר מדי בקשות, נסו שוב מאוחר יותר",
			"error.conflict":             "התנגשות",
			"error.validation.cart":      "כל פריט ברשימה צריך שם וכמות חיובית",
			"error.validation.search":    "יש למלא מונח חיפוש ועיר",
			"error.invalid_token":        "אסימון שגוי או שפג תוקפו",
			"error.token_required":       "נדרש אסימון הזדהות",
			"error.timeout":              "תם הזמן המוקצב לבקשה",

			// Success messages
			"success.cart_compared": "השוואת הסל הושלמה בהצלחה",
		},
	}
}
