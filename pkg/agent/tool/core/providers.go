package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/edopt/chatbot/pkg/agent/tool"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/service/geo"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const (
	defaultRadiusMiles = 20
	maxProviderResults = 10
	maxLocalResults    = 8
	providerDescLength = 200
)

type searchProvidersTool struct {
	repo interfaces.Repository
}

func (t *searchProvidersTool) Spec() gollem.ToolSpec {
	styles := make([]string, 0, len(types.AllEducationStyles()))
	for _, s := range types.AllEducationStyles() {
		styles = append(styles, s.String())
	}

	return gollem.ToolSpec{
		Name: tool.NameSearchProviders.String(),
		Description: "Search for education providers near a New Hampshire location. " +
			"Use when the user asks about schools, programs, tutoring, enrichment, " +
			"or education options in a specific area.",
		Parameters: map[string]*gollem.Parameter{
			"location": {
				Type:        gollem.TypeString,
				Description: "NH town, city, or county name (e.g., 'Concord', 'Hillsborough County')",
				Required:    true,
			},
			"grade": {
				Type:        gollem.TypeString,
				Description: "Grade level: 'Pre-K', 'K', '1' through '12', or 'Post-Secondary'. Omit if not specified.",
			},
			"style": {
				Type:        gollem.TypeString,
				Description: "Education style filter. Use 'any' if the user hasn't specified a preference.",
				Enum:        styles,
			},
			"radius_miles": {
				Type:        gollem.TypeInteger,
				Description: "Search radius in miles. Default 20. Increase to 50 if few results found.",
			},
		},
	}
}

type providerQuery struct {
	location string
	grade    *types.Grade
	style    types.EducationStyle
	radius   int
}

func parseProviderQuery(args tool.Args) providerQuery {
	q := providerQuery{
		location: args.String("location"),
		style:    types.EducationStyle(args.StringOr("style", types.EducationStyleAny.String())),
		radius:   args.IntOr("radius_miles", defaultRadiusMiles),
	}
	// An unreadable grade disables the grade filter instead of failing the search
	if g, err := types.ParseGrade(args.String("grade")); err == nil {
		q.grade = &g
	}
	return q
}

type providerHit struct {
	provider *model.Provider
	miles    float64
}

func (t *searchProvidersTool) Execute(ctx context.Context, args tool.Args) (string, error) {
	q := parseProviderQuery(args)

	loc, ok := geo.Resolve(q.location)
	if !ok {
		return fmt.Sprintf("Could not find '%s' in New Hampshire. "+
			"Please specify a valid NH town, city, or county name.", q.location), nil
	}

	tool.Update(ctx, fmt.Sprintf("Searching providers near %s", loc.DisplayName()))

	providers, err := t.repo.Provider().List(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list providers")
	}

	countyTowns := loc.CountyTowns()

	var local, online []providerHit
	for _, p := range providers {
		if q.grade != nil && !p.ServesGrade(*q.grade) {
			continue
		}
		if !p.MatchesStyle(q.style) {
			continue
		}

		switch {
		case p.OnlineOnly:
			online = append(online, providerHit{provider: p})
		case p.Location != nil:
			d := model.MilesBetween(loc.Center, *p.Location)
			if d > float64(q.radius) {
				continue
			}
			local = append(local, providerHit{provider: p, miles: d})
		case loc.IsCounty && p.Address != "":
			addr := strings.ToLower(p.Address)
			if slices.ContainsFunc(countyTowns, func(town string) bool { return strings.Contains(addr, town) }) {
				local = append(local, providerHit{provider: p})
			}
		}
	}

	slices.SortStableFunc(local, func(a, b providerHit) int {
		switch {
		case a.miles < b.miles:
			return -1
		case a.miles > b.miles:
			return 1
		default:
			return 0
		}
	})
	slices.SortStableFunc(online, func(a, b providerHit) int {
		return strings.Compare(a.provider.Title, b.provider.Title)
	})

	nLocal := min(len(local), maxLocalResults)
	nOnline := min(len(online), maxProviderResults-nLocal)
	results := append(local[:nLocal:nLocal], online[:nOnline]...)

	if len(results) == 0 {
		hint := ""
		if !loc.IsCounty {
			hint = fmt.Sprintf(" Try expanding your search radius beyond %d miles, or search by county.", q.radius)
		}
		return fmt.Sprintf("No providers found near %s matching your criteria.%s "+
			"You might also consider online education options or Education Freedom Accounts (EFAs) "+
			"which can fund a wide range of education expenses.", loc.DisplayName(), hint), nil
	}

	return renderProviders(loc.DisplayName(), results, nLocal, nOnline), nil
}

func renderProviders(place string, results []providerHit, nLocal, nOnline int) string {
	lines := []string{fmt.Sprintf("Found %d education provider(s) near %s:\n", len(results), place)}
	if nLocal > 0 && nOnline > 0 {
		lines = append(lines, "**Local Options:**\n")
	}

	shownOnline := false
	for _, hit := range results {
		p := hit.provider
		if p.OnlineOnly && !shownOnline && nLocal > 0 {
			shownOnline = true
			lines = append(lines, "\n**Online/Statewide Options:**\n")
		}

		lines = append(lines, "- "+providerHeadline(p))
		for _, part := range providerDetails(p, hit.miles) {
			lines = append(lines, "  - "+part)
		}
	}

	return strings.Join(lines, "\n")
}

func providerHeadline(p *model.Provider) string {
	line := fmt.Sprintf("**%s**", p.Title)
	if p.URL != "" {
		line = fmt.Sprintf("[%s](%s)", p.Title, p.URL)
	}
	if p.Website != "" && p.Website != p.URL {
		line += fmt.Sprintf(" | [Website](%s)", p.Website)
	}
	return line
}

func providerDetails(p *model.Provider, miles float64) []string {
	var parts []string
	if p.Address != "" {
		parts = append(parts, "Address: "+p.Address)
	}
	if miles > 0 {
		parts = append(parts, fmt.Sprintf("Distance: %.1f miles", miles))
	}
	if p.EducationStyle != "" {
		parts = append(parts, "Type: "+titleCase(p.EducationStyle.String()))
	}
	if p.StylesRaw != "" {
		parts = append(parts, "Styles: "+p.StylesRaw)
	}
	if r, ok := p.GradeRange(); ok {
		parts = append(parts, fmt.Sprintf("Grades: %s - %s", r.Min, r.Max))
	}
	if p.ContactPhone != "" {
		parts = append(parts, "Phone: "+p.ContactPhone)
	}
	if p.ContactEmail != "" {
		parts = append(parts, "Email: "+p.ContactEmail)
	}
	if p.OnlineOnly {
		parts = append(parts, "Available online statewide")
	}
	if p.Description != "" {
		parts = append(parts, "Description: "+ellipsize(p.Description, providerDescLength))
	}
	return parts
}
