package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto is the configuration value that asks the engine to detect the spoken
// language. Normalize maps it to "".
const Auto = "auto"

// Word forms and ISO 639-2/B codes that BCP 47 parsing does not accept.
var aliases = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
	"fre":        "fr",
	"ger":        "de",
	"chi":        "zh",
	"dut":        "nl",
}

// Normalize converts a language hint (ISO 639-1/639-2 code, BCP 47 tag or
// English name) into the base code passed to transcription engines. An empty
// hint or "auto" yields "" so the engine auto-detects.
func Normalize(hint string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(hint))
	switch value {
	case "", Auto, "und":
		return "", nil
	}
	if code, ok := aliases[value]; ok {
		return code, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("unrecognized language %q: %w", hint, err)
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return "", fmt.Errorf("unrecognized language %q", hint)
	}
	return base.String(), nil
}

// ToISO2 is Normalize without the error; unrecognized input yields "".
func ToISO2(hint string) string {
	code, err := Normalize(hint)
	if err != nil {
		return ""
	}
	return code
}

// DisplayName returns the English name for a language code. Empty input reads
// as auto-detect.
func DisplayName(code string) string {
	normalized, err := Normalize(code)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	if normalized == "" {
		return "auto-detect"
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return strings.ToUpper(normalized)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(normalized)
}
