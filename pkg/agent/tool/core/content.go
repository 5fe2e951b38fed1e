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

const contentSearchTopK = 5

type searchContentTool struct {
	repo     interfaces.Repository
	searcher Searcher
	topK     int
}

func (t *searchContentTool) Spec() gollem.ToolSpec {
	return gollem.ToolSpec{
		Name: tool.NameSearchContent.String(),
		Description: "Search EdOpt.org educational content including blog posts, guides, glossary, " +
			"and resource pages. Use when the user asks general questions about education options, " +
			"EFA application process, differences between school types, or educational terminology.",
		Parameters: map[string]*gollem.Parameter{
			"query": {
				Type:        gollem.TypeString,
				Description: "Search query (e.g., 'EFA application process', 'what is a charter school')",
				Required:    true,
			},
			"content_type": {
				Type:        gollem.TypeString,
				Description: "Filter by content type. Default 'any'.",
				Enum:        []string{types.ContentTypePost.String(), types.ContentTypePage.String(), "any"},
			},
		},
	}
}

func (t *searchContentTool) Execute(ctx context.Context, args tool.Args) (string, error) {
	query := args.String("query")

	var filter types.ContentType
	if ct := args.StringOr("content_type", "any"); ct != "any" {
		filter = types.ContentType(ct)
	}

	tool.Update(ctx, fmt.Sprintf("Searching site content: %s", query))

	hits, err := t.searcher.Search(ctx, query, filter, t.topK)
	if err != nil {
		return "", goerr.Wrap(err, "failed to search content", goerr.V("query", query), goerr.V("content_type", filter))
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No content found matching '%s' on EdOpt.org.", query), nil
	}

	lines := []string{fmt.Sprintf("EdOpt.org content matching '%s':\n", query)}
	seen := make(map[model.EmbeddingKey]struct{}, len(hits))
	for _, h := range hits {
		key := model.EmbeddingKey{ContentType: h.ContentType, ContentID: h.ContentID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		entry, err := t.render(ctx, h.ContentType, h.ContentID)
		if err != nil {
			return "", err
		}
		lines = append(lines, entry...)
	}

	return strings.Join(lines, "\n"), nil
}

// render returns the lines describing one matched record, or nothing when the
// record no longer exists
func (t *searchContentTool) render(ctx context.Context, ct types.ContentType, id int64) ([]string, error) {
	switch ct {
	case types.ContentTypeProvider:
		p, err := t.repo.Provider().Get(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get provider", goerr.V("id", id))
		}
		if p == nil {
			return nil, nil
		}
		lines := []string{fmt.Sprintf("- **[%s](%s)** (Provider)", p.Title, p.URL)}
		if p.Description != "" {
			lines = append(lines, "  "+head(p.Description, 300)+"...")
		}
		return lines, nil

	case types.ContentTypePost, types.ContentTypePage:
		page, err := t.repo.Content().Get(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get page", goerr.V("id", id))
		}
		if page == nil {
			return nil, nil
		}
		label := "Page"
		if page.ContentType == types.ContentTypePost {
			label = "Blog Post"
		}
		lines := []string{fmt.Sprintf("- **[%s](%s)** (%s)", page.Title, page.URL, label)}
		text := page.Text
		if text == "" {
			text = page.Excerpt
		}
		if text != "" {
			lines = append(lines, "  "+head(text, 300)+"...")
		}
		return lines, nil

	case types.ContentTypeRSA:
		s, err := t.repo.Statute().GetByID(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get statute", goerr.V("id", id))
		}
		if s == nil {
			return nil, nil
		}
		lines := []string{fmt.Sprintf("- **RSA %s** - %s", s.Citation(), s.SectionName)}
		if s.Text != "" {
			lines = append(lines, "  "+head(s.Text, 200)+"...")
		}
		return lines, nil

	case types.ContentTypeHandbook:
		page, err := t.repo.Content().Get(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get handbook section", goerr.V("id", id))
		}
		if page == nil {
			return nil, nil
		}
		lines := []string{fmt.Sprintf("- **%s** (EFA Parent Handbook, CSFNH)", page.Title)}
		if page.Text != "" {
			lines = append(lines, "  "+head(page.Text, 500)+"...")
		}
		return lines, nil

	case types.ContentTypeLegislation:
		b, err := t.repo.Legislation().Get(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get bill", goerr.V("id", id))
		}
		if b == nil {
			return nil, nil
		}
		return []string{fmt.Sprintf("- **%s**: %s", b.BillNumber, b.Title)}, nil
	}

	return nil, nil
}
