package core

import "fmt"

// Language is a selectable translation language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Languages is the closed set of languages the translator accepts.
var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
}

// LanguageName returns the display name for a language code, or the code
// itself when it is not in the supported set.
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

// IsSupportedLanguage reports whether code is in the supported set.
func IsSupportedLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LanguagePair is a source/target language selection.
type LanguagePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Swapped returns the pair with source and target exchanged.
func (p LanguagePair) Swapped() LanguagePair {
	return LanguagePair{Source: p.Target, Target: p.Source}
}

// Validate checks both codes against the supported set.
func (p LanguagePair) Validate() error {
	if !IsSupportedLanguage(p.Source) {
		return fmt.Errorf("unsupported source language %q", p.Source)
	}
	if !IsSupportedLanguage(p.Target) {
		return fmt.Errorf("unsupported target language %q", p.Target)
	}
	return nil
}
