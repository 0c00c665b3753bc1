package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

const holdingColumns = `id, student_id, organization_id, creature_id, creature_name, rarity, visual_ref, acquired_at`

type assignmentRepository struct {
	db *database.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *database.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

// LockHolding takes a transaction-scoped advisory lock keyed on (student, creature name).
func (repo *assignmentRepository) LockHolding(ctx context.Context, studentID, creatureName string) error {
	q := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
	_, err := repo.db.Executor(ctx).ExecContext(ctx, q, studentID+"\x00"+creatureName)
	return errors.Wrap(err, "taking holding lock")
}

func (repo *assignmentRepository) CreateHolding(ctx context.Context, rec assignment.OwnershipRecord) error {
	q := `INSERT INTO holdings (` + holdingColumns + `)
		VALUES (:id, :student_id, :organization_id, :creature_id, :creature_name, :rarity, :visual_ref, :acquired_at)`
	exec := repo.db.Executor(ctx)
	query, args, err := exec.BindNamed(q, rec)
	if err != nil {
		return errors.Wrap(err, "binding holding")
	}
	if _, err = exec.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return assignment.ErrAlreadyHeld
		}
		return errors.Wrap(err, "inserting holding")
	}
	return nil
}

func (repo *assignmentRepository) GetHolding(ctx context.Context, id string) (assignment.OwnershipRecord, error) {
	return repo.get(ctx, `SELECT `+holdingColumns+` FROM holdings WHERE id = $1`, id)
}

func (repo *assignmentRepository) GetHoldingByName(ctx context.Context, studentID, creatureName string) (assignment.OwnershipRecord, error) {
	return repo.get(ctx, `SELECT `+holdingColumns+` FROM holdings WHERE student_id = $1 AND creature_name = $2`, studentID, creatureName)
}

func (repo *assignmentRepository) get(ctx context.Context, q string, args ...interface{}) (assignment.OwnershipRecord, error) {
	var rec assignment.OwnershipRecord
	if err := repo.db.Executor(ctx).GetContext(ctx, &rec, q, args...); err != nil {
		if isNoRows(err) {
			return assignment.OwnershipRecord{}, assignment.ErrNotFound
		}
		return assignment.OwnershipRecord{}, errors.Wrap(err, "selecting holding")
	}
	rec.AcquiredAt = rec.AcquiredAt.UTC()
	return rec, nil
}

func (repo *assignmentRepository) QueryHoldings(ctx context.Context, studentID string) ([]assignment.OwnershipRecord, error) {
	recs := make([]assignment.OwnershipRecord, 0)
	q := `SELECT ` + holdingColumns + ` FROM holdings WHERE student_id = $1 ORDER BY acquired_at, creature_name`
	if err := repo.db.Executor(ctx).SelectContext(ctx, &recs, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting holdings")
	}
	return recs, nil
}

func (repo *assignmentRepository) DeleteHolding(ctx context.Context, id string) error {
	res, err := repo.db.Executor(ctx).ExecContext(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting holding")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting holding")
	}
	if n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}
