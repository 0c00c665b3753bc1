package sqlxrepos

import (
	"context"
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/catalog"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	"github.com/Shakso89/pokeayman-16-sub001/storage/database"
)

var (
	ctx = context.Background()
	now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	entryCols = []string{"id", "organization_id", "creature_id", "creature_name", "rarity", "visual_ref", "state", "claimed_by", "claimed_at"}
)

func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = sqlDB.Close()
	})
	return database.NewDB(sqlDB), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

func TestPoolRepository_ClaimEntry(t *testing.T) {
	t.Run("claimed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("UPDATE pool_entries SET state = 'claimed'")).
			WithArgs("e1", "s1", now).
			WillReturnRows(sqlmock.NewRows(entryCols).
				AddRow("e1", "org1", "pikachu", "Pikachu", "uncommon", "", "claimed", "s1", now))

		e, err := NewPoolRepository(db).ClaimEntry(ctx, "e1", "s1", now)
		require.NoError(t, err)
		assert.Equal(t, pool.StateClaimed, e.State)
		assert.Equal(t, &pool.Claim{StudentID: "s1", At: now}, e.Claim)
		assert.Equal(t, catalog.RarityUncommon, e.Rarity)
	})

	t.Run("lost race", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("UPDATE pool_entries SET state = 'claimed'")).
			WillReturnRows(sqlmock.NewRows(entryCols))
		mock.ExpectQuery(q("FROM pool_entries WHERE id = $1")).
			WithArgs("e1").
			WillReturnRows(sqlmock.NewRows(entryCols).
				AddRow("e1", "org1", "pikachu", "Pikachu", "uncommon", "", "claimed", "s2", now))

		_, err := NewPoolRepository(db).ClaimEntry(ctx, "e1", "s1", now)
		assert.Equal(t, pool.ErrAlreadyClaimed, errors.Cause(err))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("UPDATE pool_entries SET state = 'claimed'")).
			WillReturnRows(sqlmock.NewRows(entryCols))
		mock.ExpectQuery(q("FROM pool_entries WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(entryCols))

		_, err := NewPoolRepository(db).ClaimEntry(ctx, "e1", "s1", now)
		assert.Equal(t, pool.ErrNotFound, errors.Cause(err))
	})
}

func TestPoolRepository_ReleaseEntry(t *testing.T) {
	t.Run("released", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("UPDATE pool_entries SET state = 'available'")).
			WithArgs("org1", "pikachu", "s1").
			WillReturnRows(sqlmock.NewRows(entryCols).
				AddRow("e1", "org1", "pikachu", "Pikachu", "uncommon", "", "available", nil, nil))

		e, err := NewPoolRepository(db).ReleaseEntry(ctx, "org1", "pikachu", "s1")
		require.NoError(t, err)
		assert.True(t, e.IsAvailable())
		assert.Nil(t, e.Claim)
	})

	t.Run("no entry", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("UPDATE pool_entries SET state = 'available'")).
			WillReturnRows(sqlmock.NewRows(entryCols))
		mock.ExpectQuery(q("WHERE organization_id = $1 AND creature_id = $2")).
			WillReturnRows(sqlmock.NewRows(entryCols))

		_, err := NewPoolRepository(db).ReleaseEntry(ctx, "org1", "pikachu", "s1")
		assert.Equal(t, pool.ErrNotFound, errors.Cause(err))
	})
}

func TestPoolRepository_CreateEntries(t *testing.T) {
	entries := []pool.Entry{
		{ID: "e1", OrganizationID: "org1", CreatureID: "pikachu", CreatureName: "Pikachu", Rarity: catalog.RarityUncommon, State: pool.StateAvailable},
		{ID: "e2", OrganizationID: "org1", CreatureID: "mewtwo", CreatureName: "Mewtwo", Rarity: catalog.RarityLegendary, State: pool.StateAvailable},
	}

	t.Run("bulk insert", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(q("INSERT INTO pool_entries")).
			WithArgs(
				"e1", "org1", "pikachu", "Pikachu", "uncommon", "", "available", sqlmock.AnyArg(), sqlmock.AnyArg(),
				"e2", "org1", "mewtwo", "Mewtwo", "legendary", "", "available", sqlmock.AnyArg(), sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(0, 2))
		assert.NoError(t, NewPoolRepository(db).CreateEntries(ctx, entries))
	})

	t.Run("duplicate", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(q("INSERT INTO pool_entries")).
			WillReturnError(&pq.Error{Code: uniqueViolation})
		err := NewPoolRepository(db).CreateEntries(ctx, entries)
		assert.Equal(t, pool.ErrDuplicateEntry, errors.Cause(err))
	})
}

func TestLedgerRepository(t *testing.T) {
	balanceCols := []string{"student_id", "earned", "spent"}

	t.Run("unknown student", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("FROM ledger_balances WHERE student_id = $1")).
			WithArgs("s1").
			WillReturnRows(sqlmock.NewRows(balanceCols))
		acc, err := NewLedgerRepository(db).GetAccount(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, ledger.Account{StudentID: "s1"}, acc)
	})

	t.Run("credit upserts", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("ON CONFLICT (student_id) DO UPDATE SET earned = ledger_balances.earned + EXCLUDED.earned")).
			WithArgs("s1", int64(5)).
			WillReturnRows(sqlmock.NewRows(balanceCols).AddRow("s1", 12, 3))
		acc, err := NewLedgerRepository(db).CreditAccount(ctx, "s1", 5)
		require.NoError(t, err)
		assert.Equal(t, int64(9), acc.Balance())
	})

	t.Run("credit overflow", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("INSERT INTO ledger_balances")).
			WithArgs("s1", int64(math.MaxInt64)).
			WillReturnError(&pq.Error{Code: numericValueOutOfRange})
		_, err := NewLedgerRepository(db).CreditAccount(ctx, "s1", math.MaxInt64)
		assert.Equal(t, ledger.ErrBalanceOverflow, errors.Cause(err))
	})

	t.Run("debit is conditional", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(q("WHERE student_id = $1 AND earned - spent >= $2")).
			WithArgs("s1", int64(1)).
			WillReturnRows(sqlmock.NewRows(balanceCols))
		_, err := NewLedgerRepository(db).DebitAccount(ctx, "s1", 1)
		assert.Equal(t, ledger.ErrInsufficientFunds, errors.Cause(err))
	})
}

func TestAssignmentRepository(t *testing.T) {
	rec := assignment.OwnershipRecord{
		ID: "r1", StudentID: "s1", OrganizationID: "org1", CreatureID: "pikachu",
		CreatureName: "Pikachu", Rarity: catalog.RarityUncommon, AcquiredAt: now,
	}

	t.Run("advisory lock", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(q("SELECT pg_advisory_xact_lock(hashtextextended($1, 0))")).
			WithArgs("s1\x00Pikachu").
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.NoError(t, NewAssignmentRepository(db).LockHolding(ctx, "s1", "Pikachu"))
	})

	t.Run("unique index backstop", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(q("INSERT INTO holdings")).
			WithArgs("r1", "s1", "org1", "pikachu", "Pikachu", catalog.RarityUncommon, "", now).
			WillReturnError(&pq.Error{Code: uniqueViolation})
		err := NewAssignmentRepository(db).CreateHolding(ctx, rec)
		assert.Equal(t, assignment.ErrAlreadyHeld, errors.Cause(err))
	})

	t.Run("delete missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(q("DELETE FROM holdings WHERE id = $1")).
			WithArgs("r1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		err := NewAssignmentRepository(db).DeleteHolding(ctx, "r1")
		assert.Equal(t, assignment.ErrNotFound, errors.Cause(err))
	})
}

func TestWheelRepository_LoadState(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(q("INSERT INTO wheel_states (organization_id, student_id)")).
		WithArgs("org1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q("FOR UPDATE")).
		WithArgs("org1", "s1").
		WillReturnRows(sqlmock.NewRows([]string{"organization_id", "student_id", "visible_entries", "last_refresh_at"}).
			AddRow("org1", "s1", "{e1,e2}", now))

	st, err := NewWheelRepository(db).LoadState(ctx, "org1", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, st.VisibleEntries)
	require.NotNil(t, st.LastRefreshAt)
	assert.Equal(t, now, *st.LastRefreshAt)
}

func TestRewardRepository_CreateResolution(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(q("ON CONFLICT (event_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewRewardRepository(db).CreateResolution(ctx, reward.Resolution{EventID: "ev1", WinnerID: "s1", Base: 1, Total: 1, ResolvedAt: now})
	assert.Equal(t, reward.ErrAlreadyResolved, errors.Cause(err))
}

func TestOrganizationRepository_LockOrganization(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(q("SELECT id FROM organizations WHERE id = $1 FOR UPDATE")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := NewOrganizationRepository(db).LockOrganization(ctx, "ghost")
	assert.Equal(t, organization.ErrNotFound, errors.Cause(err))
}
