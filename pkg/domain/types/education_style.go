package types

import (
	"fmt"
	"strings"
)

// EducationStyle is a provider category used to filter the provider directory
type EducationStyle string

const (
	EducationStylePublic     EducationStyle = "public"
	EducationStylePrivate    EducationStyle = "private"
	EducationStyleHomeschool EducationStyle = "homeschool"
	EducationStyleCharter    EducationStyle = "charter"
	EducationStyleEnrichment EducationStyle = "enrichment"
	EducationStyleOnline     EducationStyle = "online"
	EducationStylePreschool  EducationStyle = "preschool"
	EducationStyleAny        EducationStyle = "any"
)

// AllEducationStyles returns all valid education styles including the wildcard
func AllEducationStyles() []EducationStyle {
	return []EducationStyle{
		EducationStylePublic,
		EducationStylePrivate,
		EducationStyleHomeschool,
		EducationStyleCharter,
		EducationStyleEnrichment,
		EducationStyleOnline,
		EducationStylePreschool,
		EducationStyleAny,
	}
}

// IsValid checks if the education style is valid
func (s EducationStyle) IsValid() bool {
	for _, v := range AllEducationStyles() {
		if s == v {
			return true
		}
	}
	return false
}

// String returns the string representation of the education style
func (s EducationStyle) String() string {
	return string(s)
}

// Matches reports whether a provider style satisfies this filter. An empty or
// "any" filter matches everything, and an unknown provider style is never excluded.
func (s EducationStyle) Matches(provider EducationStyle) bool {
	if s == "" || s == EducationStyleAny || provider == "" {
		return true
	}
	return s == provider
}

// ParseEducationStyle parses a string into an EducationStyle
func ParseEducationStyle(s string) (EducationStyle, error) {
	style := EducationStyle(strings.ToLower(strings.TrimSpace(s)))
	if !style.IsValid() {
		return "", fmt.Errorf("invalid education style: %s", s)
	}
	return style, nil
}
