package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type legislationRepository struct {
	db *sql.DB
}

var _ interfaces.LegislationRepository = &legislationRepository{}

const legislationColumns = `id, bill_number, title, session_year, general_status, house_status,
	senate_status, subject_code, bill_text_summary, committee_name, next_hearing_date,
	next_hearing_room, docket_summary, ingested_at`

func scanLegislation(row rowScanner) (*model.Legislation, error) {
	var (
		l          model.Legislation
		ingestedAt int64
	)
	if err := row.Scan(&l.ID, &l.BillNumber, &l.Title, &l.SessionYear, &l.GeneralStatus, &l.HouseStatus,
		&l.SenateStatus, &l.SubjectCode, &l.TextSummary, &l.CommitteeName, &l.NextHearingDate,
		&l.NextHearingRoom, &l.DocketSummary, &ingestedAt); err != nil {
		return nil, err
	}
	l.IngestedAt = fromUnixNano(ingestedAt)
	return &l, nil
}

func (r *legislationRepository) Put(ctx context.Context, bill *model.Legislation) error {
	if bill == nil || bill.ID <= 0 {
		return goerr.Wrap(ErrInvalidArgument, "legislation ID is required")
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO legislation (`+legislationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			bill_number = excluded.bill_number,
			title = excluded.title,
			session_year = excluded.session_year,
			general_status = excluded.general_status,
			house_status = excluded.house_status,
			senate_status = excluded.senate_status,
			subject_code = excluded.subject_code,
			bill_text_summary = excluded.bill_text_summary,
			committee_name = excluded.committee_name,
			next_hearing_date = excluded.next_hearing_date,
			next_hearing_room = excluded.next_hearing_room,
			docket_summary = excluded.docket_summary,
			ingested_at = excluded.ingested_at`,
		bill.ID, bill.BillNumber, bill.Title, bill.SessionYear, bill.GeneralStatus, bill.HouseStatus,
		bill.SenateStatus, bill.SubjectCode, bill.TextSummary, bill.CommitteeName, bill.NextHearingDate,
		bill.NextHearingRoom, bill.DocketSummary, toUnixNano(bill.IngestedAt),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to put legislation", goerr.V("id", bill.ID))
	}
	return nil
}

func (r *legislationRepository) PutSponsors(ctx context.Context, legislationID int64, sponsors []*model.Sponsor) error {
	bill, err := r.Get(ctx, legislationID)
	if err != nil {
		return err
	}
	if bill == nil {
		return goerr.Wrap(ErrNotFound, "legislation not found", goerr.V("id", legislationID))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM legislation_sponsors WHERE legislation_id = ?`, legislationID); err != nil {
		return goerr.Wrap(err, "failed to delete sponsors", goerr.V("id", legislationID))
	}

	for i, s := range sponsors {
		if _, err := tx.ExecContext(ctx, `INSERT INTO legislation_sponsors (
			legislation_id, person_id, first_name, last_name, party, district,
			legislative_body, is_prime_sponsor, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			legislationID, s.PersonID, s.FirstName, s.LastName, s.Party, s.District,
			s.LegislativeBody, boolToInt(s.IsPrime), i,
		); err != nil {
			return goerr.Wrap(err, "failed to insert sponsor", goerr.V("id", legislationID), goerr.V("personID", s.PersonID))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit sponsors", goerr.V("id", legislationID))
	}
	return nil
}

func (r *legislationRepository) Get(ctx context.Context, id int64) (*model.Legislation, error) {
	l, err := scanLegislation(r.db.QueryRowContext(ctx, `SELECT `+legislationColumns+` FROM legislation WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get legislation", goerr.V("id", id))
	}
	return l, nil
}

func (r *legislationRepository) FindByBillNumber(ctx context.Context, candidates ...string) (*model.Legislation, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(candidates)), ", ")
	args := make([]any, 0, len(candidates))
	for _, c := range candidates {
		args = append(args, c)
	}

	l, err := scanLegislation(r.db.QueryRowContext(ctx,
		`SELECT `+legislationColumns+` FROM legislation WHERE bill_number IN (`+placeholders+`)
		ORDER BY bill_number, id LIMIT 1`, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to find legislation", goerr.V("candidates", candidates))
	}
	return l, nil
}

// escapeLike escapes the LIKE wildcards of s using backslash
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *legislationRepository) SearchByTitle(ctx context.Context, term string, sessionYear, limit int) ([]*model.Legislation, error) {
	if limit <= 0 {
		limit = -1
	}

	bills, err := r.list(ctx, `SELECT `+legislationColumns+` FROM legislation
		WHERE lower(title) LIKE ? ESCAPE '\' AND session_year = ?
		ORDER BY bill_number, id LIMIT ?`,
		"%"+escapeLike(strings.ToLower(term))+"%", sessionYear, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search legislation", goerr.V("term", term))
	}
	return bills, nil
}

func (r *legislationRepository) List(ctx context.Context) ([]*model.Legislation, error) {
	return r.list(ctx, `SELECT `+legislationColumns+` FROM legislation ORDER BY id`)
}

func (r *legislationRepository) list(ctx context.Context, query string, args ...any) ([]*model.Legislation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query legislation")
	}
	defer func() { _ = rows.Close() }()

	bills := make([]*model.Legislation, 0)
	for rows.Next() {
		l, err := scanLegislation(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan legislation")
		}
		bills = append(bills, l)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate legislation")
	}
	return bills, nil
}

func (r *legislationRepository) ListSponsors(ctx context.Context, legislationID int64) ([]*model.Sponsor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT legislation_id, person_id, first_name, last_name, party,
		district, legislative_body, is_prime_sponsor
		FROM legislation_sponsors WHERE legislation_id = ?
		ORDER BY is_prime_sponsor DESC, position`, legislationID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list sponsors", goerr.V("id", legislationID))
	}
	defer func() { _ = rows.Close() }()

	sponsors := make([]*model.Sponsor, 0)
	for rows.Next() {
		var (
			s     model.Sponsor
			prime int
		)
		if err := rows.Scan(&s.LegislationID, &s.PersonID, &s.FirstName, &s.LastName, &s.Party,
			&s.District, &s.LegislativeBody, &prime); err != nil {
			return nil, goerr.Wrap(err, "failed to scan sponsor")
		}
		s.IsPrime = prime != 0
		sponsors = append(sponsors, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate sponsors")
	}
	return sponsors, nil
}
