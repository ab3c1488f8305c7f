package enums

import "fmt"

// Language is a vendor's preferred display language.
type Language string

const (
	LanguageHindi   Language = "hi"
	LanguageEnglish Language = "en"
)

var validLanguages = []Language{
	LanguageHindi,
	LanguageEnglish,
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// IsValid reports whether the language is supported.
func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLanguage converts raw input into a Language.
func ParseLanguage(value string) (Language, error) {
	for _, candidate := range validLanguages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid language %q", value)
}
