package sqlxrepos

import (
	"context"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

type wheelStateRow struct {
	OrganizationID string         `db:"organization_id"`
	StudentID      string         `db:"student_id"`
	VisibleEntries pq.StringArray `db:"visible_entries"`
	LastRefreshAt  null.Time      `db:"last_refresh_at"`
}

func (row wheelStateRow) state() wheel.State {
	st := wheel.State{
		OrganizationID: row.OrganizationID,
		StudentID:      row.StudentID,
		VisibleEntries: append([]string{}, row.VisibleEntries...),
	}
	if row.LastRefreshAt.Valid {
		t := row.LastRefreshAt.Time.UTC()
		st.LastRefreshAt = &t
	}
	return st
}

type wheelRepository struct {
	db *database.DB
}

var _ wheel.Repository = (*wheelRepository)(nil)

func NewWheelRepository(db *database.DB) wheel.Repository {
	return &wheelRepository{db: db}
}

func (repo *wheelRepository) LoadState(ctx context.Context, orgID, studentID string) (wheel.State, error) {
	exec := repo.db.Executor(ctx)
	q := `INSERT INTO wheel_states (organization_id, student_id) VALUES ($1, $2)
		ON CONFLICT (organization_id, student_id) DO NOTHING`
	if _, err := exec.ExecContext(ctx, q, orgID, studentID); err != nil {
		return wheel.State{}, errors.Wrap(err, "creating wheel state")
	}

	var row wheelStateRow
	q = `SELECT organization_id, student_id, visible_entries, last_refresh_at FROM wheel_states
		WHERE organization_id = $1 AND student_id = $2 FOR UPDATE`
	if err := exec.GetContext(ctx, &row, q, orgID, studentID); err != nil {
		return wheel.State{}, errors.Wrap(err, "selecting wheel state")
	}
	return row.state(), nil
}

func (repo *wheelRepository) SaveState(ctx context.Context, st wheel.State) error {
	var last null.Time
	if st.LastRefreshAt != nil {
		last = null.TimeFrom(*st.LastRefreshAt)
	}
	visible := st.VisibleEntries
	if visible == nil {
		visible = []string{}
	}
	q := `INSERT INTO wheel_states (organization_id, student_id, visible_entries, last_refresh_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, student_id)
		DO UPDATE SET visible_entries = EXCLUDED.visible_entries, last_refresh_at = EXCLUDED.last_refresh_at`
	_, err := repo.db.Executor(ctx).ExecContext(ctx, q, st.OrganizationID, st.StudentID, pq.Array(visible), last)
	return errors.Wrap(err, "saving wheel state")
}
