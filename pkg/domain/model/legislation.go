package model

import "time"

// Legislation is a bill tracked in a legislative session
type Legislation struct {
	ID              int64
	BillNumber      string // e.g. "HB 1268"
	Title           string
	SessionYear     int
	GeneralStatus   string // two-digit status code
	HouseStatus     string
	SenateStatus    string
	SubjectCode     string
	TextSummary     string
	CommitteeName   string
	NextHearingDate string
	NextHearingRoom string
	DocketSummary   string // newline separated docket entries, most recent first
	IngestedAt      time.Time
}

// Sponsor is a legislator sponsoring a bill
type Sponsor struct {
	LegislationID   int64
	PersonID        int64
	FirstName       string
	LastName        string
	Party           string // "r", "d" or other raw party code
	District        string
	LegislativeBody string // "H" or "S"
	IsPrime         bool
}

// PartyLabel returns the display label of the sponsor's party
func (s *Sponsor) PartyLabel() string {
	switch s.Party {
	case "r", "R":
		return "R"
	case "d", "D":
		return "D"
	default:
		return s.Party
	}
}

// BodyLabel returns the chamber the sponsor belongs to
func (s *Sponsor) BodyLabel() string {
	switch s.LegislativeBody {
	case "H":
		return "House"
	case "S":
		return "Senate"
	default:
		return ""
	}
}
