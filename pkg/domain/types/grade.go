package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade is a school grade level. Pre-K is -1, Kindergarten is 0 and
// post-secondary is 13 so that grade ranges compare numerically.
type Grade int

const (
	GradePreK          Grade = -1
	GradeKindergarten  Grade = 0
	GradePostSecondary Grade = 13
)

// String returns the display label of the grade
func (g Grade) String() string {
	switch g {
	case GradePreK:
		return "Pre-K"
	case GradeKindergarten:
		return "K"
	case GradePostSecondary:
		return "Post-Secondary"
	default:
		return strconv.Itoa(int(g))
	}
}

// IsValid checks if the grade is within the supported range
func (g Grade) IsValid() bool {
	return g >= GradePreK && g <= GradePostSecondary
}

// ParseGrade parses labels such as "PreK", "Pre-K", "K", "3", "3rd" and
// "Post-Secondary" into a Grade
func ParseGrade(s string) (Grade, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "-", "")
	v = strings.ReplaceAll(v, " ", "")

	switch v {
	case "prek", "pk", "preschool":
		return GradePreK, nil
	case "k", "kindergarten":
		return GradeKindergarten, nil
	case "postsecondary", "college":
		return GradePostSecondary, nil
	}

	for _, suffix := range []string{"grade", "st", "nd", "rd", "th"} {
		v = strings.TrimSuffix(v, suffix)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid grade: %s", s)
	}
	g := Grade(n)
	if !g.IsValid() {
		return 0, fmt.Errorf("grade out of range: %s", s)
	}
	return g, nil
}

// GradeRange is an inclusive span of grades served by a provider
type GradeRange struct {
	Min Grade
	Max Grade
}

// Contains reports whether g falls inside the range
func (r GradeRange) Contains(g Grade) bool {
	return g >= r.Min && g <= r.Max
}

// ParseGradeRange parses a list of grade labels into the smallest range covering all of them.
// Labels that cannot be parsed are skipped. ok is false when no label could be parsed.
func ParseGradeRange(labels []string) (GradeRange, bool) {
	var r GradeRange
	found := false
	for _, label := range labels {
		g, err := ParseGrade(label)
		if err != nil {
			continue
		}
		if !found || g < r.Min {
			r.Min = g
		}
		if !found || g > r.Max {
			r.Max = g
		}
		found = true
	}
	return r, found
}
