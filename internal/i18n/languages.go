// Package i18n holds the table of UI languages the documentation site is
// published in and the rules every entry must satisfy.
package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// Direction is the writing direction of a language.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// ParseDirection accepts ltr/rtl in any case.
func ParseDirection(raw string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(raw))); d {
	case LTR, RTL:
		return d, nil
	default:
		return "", fmt.Errorf("invalid text direction %q (want ltr or rtl)", raw)
	}
}

// LanguageDescriptor describes one supported UI language.
type LanguageDescriptor struct {
	Code   string    `yaml:"-" json:"-"`
	Name   string    `yaml:"name" json:"name"`
	Dir    Direction `yaml:"dir" json:"dir"`
	Native string    `yaml:"native" json:"native"`
}

// Languages maps a language/region tag to its descriptor.
type Languages map[string]LanguageDescriptor

var supported = []LanguageDescriptor{
	{Code: "en", Name: "English", Dir: LTR, Native: "English"},
	{Code: "es", Name: "Spanish", Dir: LTR, Native: "Español"},
	{Code: "fr", Name: "French", Dir: LTR, Native: "Français"},
	{Code: "de", Name: "German", Dir: LTR, Native: "Deutsch"},
	{Code: "it", Name: "Italian", Dir: LTR, Native: "Italiano"},
	{Code: "pt-BR", Name: "Portuguese (Brazil)", Dir: LTR, Native: "Português (Brasil)"},
	{Code: "ja", Name: "Japanese", Dir: LTR, Native: "日本語"},
	{Code: "ko", Name: "Korean", Dir: LTR, Native: "한국어"},
	{Code: "zh-CN", Name: "Chinese (Simplified)", Dir: LTR, Native: "简体中文"},
	{Code: "zh-TW", Name: "Chinese (Traditional)", Dir: LTR, Native: "繁體中文"},
	{Code: "ru", Name: "Russian", Dir: LTR, Native: "Русский"},
	{Code: "hi", Name: "Hindi", Dir: LTR, Native: "हिन्दी"},
	{Code: "ar", Name: "Arabic", Dir: RTL, Native: "العربية"},
	{Code: "he", Name: "Hebrew", Dir: RTL, Native: "עברית"},
	{Code: "fa", Name: "Persian", Dir: RTL, Native: "فارسی"},
	{Code: "ur", Name: "Urdu", Dir: RTL, Native: "اردو"},
}

// Supported returns a fresh copy of the site's language table.
func Supported() Languages {
	out := make(Languages, len(supported))
	for _, d := range supported {
		out[d.Code] = d
	}
	return out
}

// Codes returns the tags in lexical order.
func (l Languages) Codes() []string {
	return slices.Sorted(maps.Keys(l))
}

// Clone returns an independent copy.
func (l Languages) Clone() Languages {
	return maps.Clone(l)
}

// Get looks up a descriptor by tag. Lookup is case-insensitive on the
// canonical form, so "pt-br" finds "pt-BR".
func (l Languages) Get(code string) (LanguageDescriptor, bool) {
	if d, ok := l[code]; ok {
		return d, true
	}
	want, err := language.Parse(code)
	if err != nil {
		return LanguageDescriptor{}, false
	}
	for k, d := range l {
		if tag, err := language.Parse(k); err == nil && tag == want {
			return d, true
		}
	}
	return LanguageDescriptor{}, false
}

// Validate checks every entry: keys are well-formed BCP 47 tags and unique
// after canonicalization, Code (when set) matches the key, names are
// non-empty and Dir is ltr or rtl. All problems are reported together.
func (l Languages) Validate() error {
	var problems []string
	canonical := make(map[string]string, len(l))

	for _, code := range l.Codes() {
		d := l[code]
		tag, err := language.Parse(code)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%q: invalid language tag: %v", code, err))
		} else if prev, dup := canonical[tag.String()]; dup {
			problems = append(problems, fmt.Sprintf("%q: duplicates %q", code, prev))
		} else {
			canonical[tag.String()] = code
		}
		if d.Code != "" && d.Code != code {
			problems = append(problems, fmt.Sprintf("%q: descriptor code %q does not match key", code, d.Code))
		}
		if strings.TrimSpace(d.Native) == "" {
			problems = append(problems, fmt.Sprintf("%q: native name is empty", code))
		}
		if strings.TrimSpace(d.Name) == "" {
			problems = append(problems, fmt.Sprintf("%q: display name is empty", code))
		}
		if d.Dir != LTR && d.Dir != RTL {
			problems = append(problems, fmt.Sprintf("%q: invalid dir %q", code, d.Dir))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid language table: %s", strings.Join(problems, "; "))
	}
	return nil
}
