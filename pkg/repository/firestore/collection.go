package firestore

import (
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Collection names. A non-empty prefix is joined with an underscore.
const (
	collectionProviders   = "providers"
	collectionStatutes    = "rsa_sections"
	collectionLegislation = "legislation"
	collectionSponsors    = "sponsors"
	collectionContent     = "content_pages"
	collectionEmbeddings  = "embeddings"
	collectionSessions    = "chat_sessions"
	collectionMessages    = "messages"
)

func collectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}
