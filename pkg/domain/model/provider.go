package model

import (
	"time"

	"github.com/edopt/chatbot/pkg/domain/types"
)

// Provider is an entry of the education provider directory
type Provider struct {
	ID             int64
	Slug           string
	Title          string
	Description    string
	ContentText    string
	URL            string
	Address        string
	Location       *Coordinates // nil when the address could not be geocoded
	GradeStart     *types.Grade
	GradeEnd       *types.Grade
	EducationStyle types.EducationStyle
	StylesRaw      string // comma-separated style labels as published
	Website        string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	OnlineOnly     bool
	IngestedAt     time.Time
}

// GradeRange returns the grades served by the provider. ok is false when either bound is unknown.
func (p *Provider) GradeRange() (types.GradeRange, bool) {
	if p.GradeStart == nil || p.GradeEnd == nil {
		return types.GradeRange{}, false
	}
	return types.GradeRange{Min: *p.GradeStart, Max: *p.GradeEnd}, true
}

// ServesGrade reports whether the provider serves grade g. Providers without
// a known grade range are not excluded.
func (p *Provider) ServesGrade(g types.Grade) bool {
	r, ok := p.GradeRange()
	if !ok {
		return true
	}
	return r.Contains(g)
}

// MatchesStyle reports whether the provider satisfies the style filter.
// Providers without a recorded style are not excluded.
func (p *Provider) MatchesStyle(style types.EducationStyle) bool {
	return style.Matches(p.EducationStyle)
}
