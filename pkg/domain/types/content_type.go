package types

import "fmt"

// ContentType partitions the embedding index by the kind of source entity
type ContentType string

const (
	ContentTypeProvider    ContentType = "provider"
	ContentTypePost        ContentType = "post"
	ContentTypePage        ContentType = "page"
	ContentTypeRSA         ContentType = "rsa"
	ContentTypeLegislation ContentType = "legislation"
	ContentTypeHandbook    ContentType = "handbook"
)

// AllContentTypes returns all content types known to the indexer
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeProvider,
		ContentTypePost,
		ContentTypePage,
		ContentTypeRSA,
		ContentTypeLegislation,
		ContentTypeHandbook,
	}
}

// IsValid checks if the content type is one the indexer produces
func (c ContentType) IsValid() bool {
	switch c {
	case ContentTypeProvider,
		ContentTypePost,
		ContentTypePage,
		ContentTypeRSA,
		ContentTypeLegislation,
		ContentTypeHandbook:
		return true
	default:
		return false
	}
}

// IsPage reports whether the type is stored as a content page (posts, pages and handbook sections)
func (c ContentType) IsPage() bool {
	return c == ContentTypePost || c == ContentTypePage || c == ContentTypeHandbook
}

// String returns the string representation of the content type
func (c ContentType) String() string {
	return string(c)
}

// ParseContentType parses a string into a ContentType
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(s)
	if !ct.IsValid() {
		return "", fmt.Errorf("invalid content type: %s", s)
	}
	return ct, nil
}
