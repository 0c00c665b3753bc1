package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

const poolEntryColumns = `id, organization_id, creature_id, creature_name, rarity, visual_ref, state, claimed_by, claimed_at`

type poolEntryRow struct {
	ID             string      `db:"id"`
	OrganizationID string      `db:"organization_id"`
	CreatureID     string      `db:"creature_id"`
	CreatureName   string      `db:"creature_name"`
	Rarity         string      `db:"rarity"`
	VisualRef      string      `db:"visual_ref"`
	State          string      `db:"state"`
	ClaimedBy      null.String `db:"claimed_by"`
	ClaimedAt      null.Time   `db:"claimed_at"`
}

func newPoolEntryRow(e pool.Entry) poolEntryRow {
	row := poolEntryRow{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		CreatureID:     e.CreatureID,
		CreatureName:   e.CreatureName,
		Rarity:         string(e.Rarity),
		VisualRef:      e.VisualRef,
		State:          string(e.State),
	}
	if e.Claim != nil {
		row.ClaimedBy = null.StringFrom(e.Claim.StudentID)
		row.ClaimedAt = null.TimeFrom(e.Claim.At)
	}
	return row
}

func (row poolEntryRow) entry() pool.Entry {
	e := pool.Entry{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		CreatureID:     row.CreatureID,
		CreatureName:   row.CreatureName,
		Rarity:         catalog.Rarity(row.Rarity),
		VisualRef:      row.VisualRef,
		State:          pool.State(row.State),
	}
	if row.ClaimedBy.Valid {
		e.Claim = &pool.Claim{StudentID: row.ClaimedBy.String, At: row.ClaimedAt.Time.UTC()}
	}
	return e
}

func entries(rows []poolEntryRow) []pool.Entry {
	out := make([]pool.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entry())
	}
	return out
}

type poolRepository struct {
	db *database.DB
}

var _ pool.Repository = (*poolRepository)(nil)

func NewPoolRepository(db *database.DB) pool.Repository {
	return &poolRepository{db: db}
}

func (repo *poolRepository) CountEntries(ctx context.Context, orgID string) (int, error) {
	var n int
	q := `SELECT count(*) FROM pool_entries WHERE organization_id = $1`
	if err := repo.db.Executor(ctx).GetContext(ctx, &n, q, orgID); err != nil {
		return 0, errors.Wrap(err, "counting pool entries")
	}
	return n, nil
}

func (repo *poolRepository) CreateEntries(ctx context.Context, es []pool.Entry) error {
	if len(es) == 0 {
		return nil
	}
	rows := make([]poolEntryRow, 0, len(es))
	for _, e := range es {
		rows = append(rows, newPoolEntryRow(e))
	}
	q := `INSERT INTO pool_entries (` + poolEntryColumns + `)
		VALUES (:id, :organization_id, :creature_id, :creature_name, :rarity, :visual_ref, :state, :claimed_by, :claimed_at)`
	if _, err := sqlx.NamedExecContext(ctx, repo.db.Executor(ctx), q, rows); err != nil {
		if isUniqueViolation(err) {
			return pool.ErrDuplicateEntry
		}
		return errors.Wrap(err, "inserting pool entries")
	}
	return nil
}

func (repo *poolRepository) GetEntry(ctx context.Context, id string) (pool.Entry, error) {
	var row poolEntryRow
	q := `SELECT ` + poolEntryColumns + ` FROM pool_entries WHERE id = $1`
	if err := repo.db.Executor(ctx).GetContext(ctx, &row, q, id); err != nil {
		if isNoRows(err) {
			return pool.Entry{}, pool.ErrNotFound
		}
		return pool.Entry{}, errors.Wrap(err, "selecting pool entry")
	}
	return row.entry(), nil
}

func (repo *poolRepository) QueryAvailable(ctx context.Context, orgID string) ([]pool.Entry, error) {
	var rows []poolEntryRow
	q := `SELECT ` + poolEntryColumns + ` FROM pool_entries
		WHERE organization_id = $1 AND state = 'available'
		ORDER BY creature_name`
	if err := repo.db.Executor(ctx).SelectContext(ctx, &rows, q, orgID); err != nil {
		return nil, errors.Wrap(err, "selecting available entries")
	}
	return entries(rows), nil
}

func (repo *poolRepository) ClaimEntry(ctx context.Context, id, studentID string, at time.Time) (pool.Entry, error) {
	var row poolEntryRow
	q := `UPDATE pool_entries SET state = 'claimed', claimed_by = $2, claimed_at = $3
		WHERE id = $1 AND state = 'available'
		RETURNING ` + poolEntryColumns
	err := repo.db.Executor(ctx).GetContext(ctx, &row, q, id, studentID, at)
	if err == nil {
		return row.entry(), nil
	}
	if !isNoRows(err) {
		return pool.Entry{}, errors.Wrap(err, "claiming pool entry")
	}

	// nothing updated: tell a missing entry from a lost race
	if _, err = repo.GetEntry(ctx, id); err != nil {
		return pool.Entry{}, err
	}
	return pool.Entry{}, pool.ErrAlreadyClaimed
}

func (repo *poolRepository) ReleaseEntry(ctx context.Context, orgID, creatureID, studentID string) (pool.Entry, error) {
	var row poolEntryRow
	exec := repo.db.Executor(ctx)
	q := `UPDATE pool_entries SET state = 'available', claimed_by = NULL, claimed_at = NULL
		WHERE organization_id = $1 AND creature_id = $2 AND claimed_by = $3
		RETURNING ` + poolEntryColumns
	err := exec.GetContext(ctx, &row, q, orgID, creatureID, studentID)
	if err == nil {
		return row.entry(), nil
	}
	if !isNoRows(err) {
		return pool.Entry{}, errors.Wrap(err, "releasing pool entry")
	}

	q = `SELECT ` + poolEntryColumns + ` FROM pool_entries WHERE organization_id = $1 AND creature_id = $2`
	if err = exec.GetContext(ctx, &row, q, orgID, creatureID); err != nil {
		if isNoRows(err) {
			return pool.Entry{}, pool.ErrNotFound
		}
		return pool.Entry{}, errors.Wrap(err, "selecting pool entry")
	}
	return row.entry(), nil
}
