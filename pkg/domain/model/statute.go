package model

import "time"

// Statute is one section of the New Hampshire Revised Statutes Annotated (RSA)
type Statute struct {
	ID          int64
	TitleNo     string
	TitleName   string
	ChapterNo   string // e.g. "193-A"
	ChapterName string
	SectionNo   string // e.g. "1"
	SectionName string
	Text        string
	IngestedAt  time.Time
}

// Citation returns the "chapter:section" form used in RSA references
func (s *Statute) Citation() string {
	return s.ChapterNo + ":" + s.SectionNo
}
