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
	maxStatuteTextLength  = 3000
	maxChapterSections    = 20
	chapterPreviewLength  = 150
	statutePreviewLength  = 200
	statuteSearchTopK     = 5
	statuteTruncatedNotes = "\n\n[Text truncated. Full text available at gencourt.state.nh.us]"
)

type lookupRSATool struct {
	repo     interfaces.Repository
	searcher Searcher
}

func (t *lookupRSATool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name: tool.NameLookupRSA.String(),
		Description: "Look up a specific New Hampshire RSA (Revised Statute Annotated) section. " +
			"Use when the user asks about NH education law, legal requirements, " +
			"homeschool notification rules, EFA eligibility, or specific RSA references. " +
			"Common education RSAs: 193-A (Home Education), 194-F (EFA Program), " +
			"194-B (Charter Schools), 193-E (Adequate Public Education), 193:1 (Compulsory Attendance).",
		Parameters: map[string]*gollem.Parameter{
			"chapter": {
				Type:        gollem.TypeString,
				Description: "RSA chapter number (e.g., '193-A', '194-F', '194-B')",
			},
			"section": {
				Type:        gollem.TypeString,
				Description: "Section number within the chapter (e.g., '1', '2', '3')",
			},
			"search_text": {
				Type:        gollem.TypeString,
				Description: "Free-text search if the specific chapter/section is unknown (e.g., 'home education notification')",
			},
		},
	}
}

func (t *lookupRSATool) Execute(ctx context.Context, args tool.Args) (string, error) {
	chapter := strings.TrimSpace(args.String("chapter"))
	section := strings.TrimSpace(args.String("section"))
	searchText := args.String("search_text")

	switch {
	case chapter != "" && section != "":
		return t.section(ctx, chapter, section)
	case chapter != "":
		return t.chapter(ctx, chapter)
	case searchText != "":
		return t.search(ctx, searchText)
	default:
		return "Please provide either a chapter/section number or search text to look up an RSA.", nil
	}
}

func (t *lookupRSATool) section(ctx context.Context, chapter, section string) (string, error) {
	tool.Update(ctx, fmt.Sprintf("Looking up RSA %s:%s", chapter, section))

	s, err := t.repo.Statute().Get(ctx, chapter, section)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get statute", goerr.V("chapter", chapter), goerr.V("section", section))
	}
	if s == nil {
		return fmt.Sprintf("RSA %s:%s not found. Check the chapter and section numbers.", chapter, section), nil
	}

	text := s.Text
	if text == "" {
		text = "(No text available)"
	}
	if len([]rune(text)) > maxStatuteTextLength {
		text = head(text, maxStatuteTextLength) + statuteTruncatedNotes
	}

	return fmt.Sprintf("**RSA %s - %s**\nChapter: %s\nTitle: %s\n\n%s",
		s.Citation(), s.SectionName, s.ChapterName, s.TitleName, text), nil
}

func (t *lookupRSATool) chapter(ctx context.Context, chapter string) (string, error) {
	tool.Update(ctx, fmt.Sprintf("Listing RSA chapter %s", chapter))

	sections, err := t.repo.Statute().ListByChapter(ctx, chapter)
	if err != nil {
		return "", goerr.Wrap(err, "failed to list statutes", goerr.V("chapter", chapter))
	}
	if len(sections) == 0 {
		return fmt.Sprintf("No RSA sections found for chapter %s.", chapter), nil
	}

	lines := []string{
		fmt.Sprintf("**RSA Chapter %s - %s**\n", chapter, sections[0].ChapterName),
		fmt.Sprintf("Found %d sections:\n", len(sections)),
	}
	for _, s := range sections[:min(len(sections), maxChapterSections)] {
		lines = append(lines, fmt.Sprintf("- **%s** - %s", s.Citation(), s.SectionName))
		if summary := head(s.Text, chapterPreviewLength); summary != "" {
			lines = append(lines, "  "+summary+"...")
		}
	}
	if rest := len(sections) - maxChapterSections; rest > 0 {
		lines = append(lines, fmt.Sprintf("\n... and %d more sections. Ask about a specific section for full text.", rest))
	}

	return strings.Join(lines, "\n"), nil
}

func (t *lookupRSATool) search(ctx context.Context, query string) (string, error) {
	tool.Update(ctx, fmt.Sprintf("Searching RSA text: %s", query))

	hits, err := t.searcher.Search(ctx, query, types.ContentTypeRSA, statuteSearchTopK)
	if err != nil {
		return "", goerr.Wrap(err, "failed to search statutes", goerr.V("query", query))
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No RSA sections found matching '%s'.", query), nil
	}

	lines := []string{fmt.Sprintf("RSA sections matching '%s':\n", query)}
	for _, id := range uniqueContentIDs(hits) {
		s, err := t.repo.Statute().GetByID(ctx, id)
		if err != nil {
			return "", goerr.Wrap(err, "failed to get statute", goerr.V("id", id))
		}
		if s == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("- **RSA %s** - %s\n  %s...",
			s.Citation(), s.SectionName, head(s.Text, statutePreviewLength)))
	}

	return strings.Join(lines, "\n"), nil
}

// uniqueContentIDs returns the content IDs of hits in rank order, each once
func uniqueContentIDs(hits []*model.SearchResult) []int64 {
	seen := make(map[int64]struct{}, len(hits))
	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		if _, ok := seen[h.ContentID]; ok {
			continue
		}
		seen[h.ContentID] = struct{}{}
		ids = append(ids, h.ContentID)
	}
	return ids
}
