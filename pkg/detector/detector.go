// Package detector guesses the language a post is written in.
package detector

import (
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua detector restricted to a fixed set of languages.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector for the given ISO 639-1 codes, e.g. ["en", "de"].
// lingua needs at least two candidates to choose between.
func New(codes []string) (*Detector, error) {
	seen := make(map[lingua.Language]bool, len(codes))
	var languages []lingua.Language
	for _, code := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToLower(strings.TrimSpace(code)))
		lang := lingua.GetLanguageFromIsoCode639_1(iso)
		if lang == lingua.Unknown {
			return nil, fmt.Errorf("unknown language code %q", code)
		}
		if !seen[lang] {
			seen[lang] = true
			languages = append(languages, lang)
		}
	}
	if len(languages) < 2 {
		return nil, fmt.Errorf("language detection needs at least two languages, got %d", len(languages))
	}

	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}, nil
}

// Detect returns the lower-case ISO 639-1 code of text's language.
// ok is false when the text is too short or ambiguous to decide.
func (d *Detector) Detect(text string) (code string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
