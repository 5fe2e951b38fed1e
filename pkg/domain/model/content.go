package model

import (
	"time"

	"github.com/edopt/chatbot/pkg/domain/types"
)

// ContentPage is a published article: a blog post, a site page or a handbook section
type ContentPage struct {
	ID          int64
	ContentType types.ContentType // post, page or handbook
	Slug        string
	Title       string
	Text        string
	Excerpt     string
	URL         string
	PublishedAt string
	ModifiedAt  string
	IngestedAt  time.Time
}
