package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/edopt/chatbot/pkg/agent/tool"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const (
	maxSponsorsShown      = 10
	maxDocketLines        = 5
	billSummaryLength     = 1500
	titleSearchLimit      = 10
	maxTitleMatchesShown  = 15
	legislationSearchTopK = 5
)

// billPrefixes are the bill number prefixes in match order. CACR is checked first.
var billPrefixes = []string{"CACR", "HB", "SB", "HR", "SR"}

type searchLegislationTool struct {
	repo        interfaces.Repository
	searcher    Searcher
	sessionYear int
	synonyms    []SynonymGroup
}

func (t *searchLegislationTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name: tool.NameSearchLegislation.String(),
		Description: fmt.Sprintf("Search current NH legislation (bills) in the %d session. "+
			"Use when the user asks about pending education bills, specific bill numbers "+
			"like 'HB 1268' or 'SB 295', or wants to know about proposed education law changes.", t.sessionYear),
		Parameters: map[string]*gollem.Parameter{
			"bill_number": {
				Type:        gollem.TypeString,
				Description: "Specific bill number like 'HB 1268' or 'SB 295'",
			},
			"search_text": {
				Type:        gollem.TypeString,
				Description: "Free-text search of bill titles (e.g., 'education freedom', 'homeschool')",
			},
			"session_year": {
				Type:        gollem.TypeInteger,
				Description: fmt.Sprintf("Legislative session year. Default %d.", t.sessionYear),
			},
		},
	}
}

func (t *searchLegislationTool) Execute(ctx context.Context, args tool.Args) (string, error) {
	year := args.IntOr("session_year", t.sessionYear)

	if billNumber := strings.TrimSpace(args.String("bill_number")); billNumber != "" {
		return t.bill(ctx, billNumber, year)
	}
	if searchText := args.String("search_text"); searchText != "" {
		return t.search(ctx, searchText, year)
	}
	return "Please provide a bill number or search text.", nil
}

// billNumberCandidates returns the unspaced and spaced forms of a bill number,
// e.g. "hb1268" gives "HB1268" and "HB 1268"
func billNumberCandidates(billNumber string) (string, string) {
	compact := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(billNumber)), " ", "")
	for _, prefix := range billPrefixes {
		if strings.HasPrefix(compact, prefix) {
			return compact, prefix + " " + compact[len(prefix):]
		}
	}
	return compact, compact
}

func (t *searchLegislationTool) bill(ctx context.Context, billNumber string, year int) (string, error) {
	compact, spaced := billNumberCandidates(billNumber)
	tool.Update(ctx, fmt.Sprintf("Looking up bill %s", spaced))

	bill, err := t.repo.Legislation().FindByBillNumber(ctx, compact, spaced)
	if err != nil {
		return "", goerr.Wrap(err, "failed to find bill", goerr.V("bill_number", billNumber))
	}
	if bill == nil {
		return fmt.Sprintf("Bill %s not found in the %d session.", billNumber, year), nil
	}

	sponsors, err := t.repo.Legislation().ListSponsors(ctx, bill.ID)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list sponsors", goerr.V("legislation_id", bill.ID))
	}

	return renderBill(bill, sponsors), nil
}

func renderBill(bill *model.Legislation, sponsors []*model.Sponsor) string {
	lines := []string{
		fmt.Sprintf("**%s**: %s", bill.BillNumber, bill.Title),
		fmt.Sprintf("Session: %d", bill.SessionYear),
		"Status: " + describeStatus(bill.GeneralStatus),
	}
	if bill.CommitteeName != "" {
		lines = append(lines, "Committee: "+bill.CommitteeName)
	}
	if bill.NextHearingDate != "" {
		room := bill.NextHearingRoom
		if room == "" {
			room = "TBD"
		}
		lines = append(lines, fmt.Sprintf("Hearing: %s at %s", bill.NextHearingDate, room))
	}
	if len(sponsors) > 0 {
		lines = append(lines, fmt.Sprintf("Sponsors (%d):", len(sponsors)))
		for _, s := range sponsors[:min(len(sponsors), maxSponsorsShown)] {
			lines = append(lines, sponsorLine(s))
		}
	}
	if bill.DocketSummary != "" {
		lines = append(lines, "\nRecent Activity:")
		docket := strings.Split(bill.DocketSummary, "\n")
		for _, d := range docket[:min(len(docket), maxDocketLines)] {
			lines = append(lines, "  "+d)
		}
	}
	if bill.TextSummary != "" {
		lines = append(lines, "\nBill Text Summary:\n"+head(bill.TextSummary, billSummaryLength)+"...")
	}
	return strings.Join(lines, "\n")
}

func sponsorLine(s *model.Sponsor) string {
	role := ""
	if s.IsPrime {
		role = " (Prime Sponsor)"
	}
	return fmt.Sprintf("  - %s %s (%s, %s Dist. %s)%s",
		s.FirstName, s.LastName, s.PartyLabel(), s.BodyLabel(), s.District, role)
}

// searchTerms returns the search text followed by the synonyms of the first
// group whose key appears in it
func (t *searchLegislationTool) searchTerms(searchText string) []string {
	terms := []string{searchText}
	lower := strings.ToLower(searchText)
	for _, g := range t.synonyms {
		if !strings.Contains(lower, g.Key) {
			continue
		}
		for _, term := range g.Terms {
			if strings.ToLower(term) != lower {
				terms = append(terms, term)
			}
		}
		break
	}
	return terms
}

func (t *searchLegislationTool) search(ctx context.Context, searchText string, year int) (string, error) {
	terms := t.searchTerms(searchText)
	tool.Update(ctx, fmt.Sprintf("Searching bill titles: %s", strings.Join(terms, ", ")))

	seen := make(map[int64]struct{})
	var bills []*model.Legislation
	for _, term := range terms {
		found, err := t.repo.Legislation().SearchByTitle(ctx, term, year, titleSearchLimit)
		if err != nil {
			return "", goerr.Wrap(err, "failed to search bill titles", goerr.V("term", term), goerr.V("year", year))
		}
		for _, b := range found {
			if _, ok := seen[b.ID]; ok {
				continue
			}
			seen[b.ID] = struct{}{}
			bills = append(bills, b)
		}
	}

	if len(bills) > 0 {
		lines := []string{fmt.Sprintf("Bills matching '%s' in %d session:\n", searchText, year)}
		for _, b := range bills[:min(len(bills), maxTitleMatchesShown)] {
			lines = append(lines, billSummaryLine(b))
		}
		return strings.Join(lines, "\n"), nil
	}

	hits, err := t.searcher.Search(ctx, searchText, types.ContentTypeLegislation, legislationSearchTopK)
	if err != nil {
		return "", goerr.Wrap(err, "failed to search legislation", goerr.V("query", searchText))
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No bills found matching '%s' in the %d session.", searchText, year), nil
	}

	lines := []string{fmt.Sprintf("Bills related to '%s':\n", searchText)}
	for _, id := range uniqueContentIDs(hits) {
		b, err := t.repo.Legislation().Get(ctx, id)
		if err != nil {
			return "", goerr.Wrap(err, "failed to get bill", goerr.V("id", id))
		}
		if b == nil {
			continue
		}
		lines = append(lines, billSummaryLine(b))
	}
	return strings.Join(lines, "\n"), nil
}

func billSummaryLine(b *model.Legislation) string {
	return fmt.Sprintf("- **%s**: %s [%s]", b.BillNumber, b.Title, describeStatus(b.GeneralStatus))
}
