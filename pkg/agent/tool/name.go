package tool

import "github.com/m-mizutani/goerr/v2"

// Name identifies a tool of the closed tool set
type Name string

const (
	NameSearchProviders   Name = "search_providers"
	NameLookupRSA         Name = "lookup_rsa"
	NameSearchLegislation Name = "search_legislation"
	NameSearchContent     Name = "search_content"
)

// AllNames returns every tool name in declaration order
func AllNames() []Name {
	return []Name{
		NameSearchProviders,
		NameLookupRSA,
		NameSearchLegislation,
		NameSearchContent,
	}
}

// IsValid reports whether n belongs to the tool set
func (n Name) IsValid() bool {
	switch n {
	case NameSearchProviders, NameLookupRSA, NameSearchLegislation, NameSearchContent:
		return true
	default:
		return false
	}
}

func (n Name) String() string {
	return string(n)
}

// ParseName converts a model-supplied tool name into a Name
func ParseName(s string) (Name, error) {
	n := Name(s)
	if !n.IsValid() {
		return "", goerr.Wrap(ErrUnknownTool, "unknown tool name", goerr.V("name", s))
	}
	return n, nil
}
