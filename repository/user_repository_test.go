package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"faucet/config"
	"faucet/events"
	"faucet/repository/testutil"
	"faucet/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing user", func(t *testing.T) {
		user, err := repo.GetByUserID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("create and get", func(t *testing.T) {
		created, err := repo.Create(ctx, 100, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(100), created.UserID)
		assert.Equal(t, "alice", created.Username)
		assert.True(t, created.Balance.Equal(decimal.Zero))
		assert.Nil(t, created.LinkedAccount)
		assert.Nil(t, created.LastRewardAt)

		got, err := repo.GetByUserID(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, created.UserID, got.UserID)
		assert.True(t, got.Balance.Equal(decimal.Zero))
	})

	t.Run("existing row returns nil", func(t *testing.T) {
		// A lost first-contact race surfaces as nil, not as a duplicate-key
		// error; the caller re-reads the winner's row
		dup, err := repo.Create(ctx, 100, "alice")
		require.NoError(t, err)
		assert.Nil(t, dup)

		got, err := repo.GetByUserID(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "alice", got.Username)
	})
}

func TestUserRepository_CreditReward(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 200, "bob")
	require.NoError(t, err)

	one := decimal.NewFromInt(1)
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first credit", func(t *testing.T) {
		user, err := repo.CreditReward(ctx, 200, one, t0, nil)
		require.NoError(t, err)
		assert.True(t, user.Balance.Equal(one))
		require.NotNil(t, user.LastRewardAt)
		assert.WithinDuration(t, t0, *user.LastRewardAt, time.Millisecond)
	})

	t.Run("stale observed timestamp conflicts", func(t *testing.T) {
		// A second credit observing the pre-claim state must not apply
		_, err := repo.CreditReward(ctx, 200, one, t0.Add(time.Second), nil)
		assert.ErrorIs(t, err, service.ErrRewardConflict)

		user, err := repo.GetByUserID(ctx, 200)
		require.NoError(t, err)
		assert.True(t, user.Balance.Equal(one), "conflicting credit must not change the balance")
	})

	t.Run("fresh observed timestamp applies", func(t *testing.T) {
		user, err := repo.GetByUserID(ctx, 200)
		require.NoError(t, err)

		t1 := t0.Add(2 * time.Hour)
		updated, err := repo.CreditReward(ctx, 200, one, t1, user.LastRewardAt)
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(2)))
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, err := repo.CreditReward(ctx, 200, decimal.Zero, t0, nil)
		assert.Error(t, err)
	})
}

// Fractional rewards accumulate exactly, with no float drift.
func TestUserRepository_CreditReward_ExactArithmetic(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, 300, "carol")
	require.NoError(t, err)

	reward := decimal.RequireFromString("0.1")
	when := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	var last *time.Time
	for i := 0; i < 10; i++ {
		user, err := repo.CreditReward(ctx, 300, reward, when, last)
		require.NoError(t, err)
		last = user.LastRewardAt
		when = when.Add(time.Hour)
	}

	user, err := repo.GetByUserID(ctx, 300)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(1)),
		"expected exactly 1, got %s", user.Balance)
}

func TestUserRepository_LinkAccount(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.SeedUser(t, testDB.DB, 400, "dave")
	testutil.SeedUser(t, testDB.DB, 401, "erin")

	t.Run("link and look up", func(t *testing.T) {
		require.NoError(t, repo.LinkAccount(ctx, 400, "0.0.1111"))

		holder, err := repo.GetByLinkedAccount(ctx, "0.0.1111")
		require.NoError(t, err)
		require.NotNil(t, holder)
		assert.Equal(t, int64(400), holder.UserID)
	})

	t.Run("account held by another user", func(t *testing.T) {
		err := repo.LinkAccount(ctx, 401, "0.0.1111")
		assert.ErrorIs(t, err, service.ErrAccountLinkedToOther)

		// erin stays unlinked
		user, err := repo.GetByUserID(ctx, 401)
		require.NoError(t, err)
		assert.Nil(t, user.LinkedAccount)
	})

	t.Run("relinking is rejected", func(t *testing.T) {
		testutil.SeedUserWithLink(t, testDB.DB, 402, "frank", "0.0.3333")

		err := repo.LinkAccount(ctx, 402, "0.0.2222")
		assert.ErrorIs(t, err, service.ErrAlreadyLinked)
	})

	t.Run("unknown account", func(t *testing.T) {
		holder, err := repo.GetByLinkedAccount(ctx, "0.0.9999")
		require.NoError(t, err)
		assert.Nil(t, holder)
	})
}

func TestUserRepository_GetTopBalances(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	for i, amount := range []string{"3", "10", "7"} {
		testutil.SeedUserWithBalance(t, testDB.DB, int64(500+i), "miner", decimal.RequireFromString(amount))
	}
	// A zero-balance user never appears on the board
	testutil.SeedUser(t, testDB.DB, 510, "idle")

	users, err := repo.GetTopBalances(ctx, 2)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, int64(501), users[0].UserID)
	assert.Equal(t, int64(502), users[1].UserID)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newClaimService(testDB *testutil.TestDatabase) service.MiningService {
	uowFactory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	cfg := &config.Config{
		Cooldown:     100 * time.Minute,
		RewardAmount: decimal.NewFromInt(1),
	}
	return service.NewMiningService(uowFactory, fixedClock{now: time.Now().UTC()}, nil, cfg)
}

// raceClaims fires n concurrent claims for the same user and returns how many
// succeeded, requiring that none errored.
func raceClaims(t *testing.T, svc service.MiningService, userID int64, username string, n int) int {
	t.Helper()
	ctx := context.Background()

	results := make([]bool, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.Claim(ctx, userID, username)
			if err != nil {
				errs[i] = err
				return
			}
			results[i] = result.Success
		}(i)
	}
	wg.Wait()

	successes := 0
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		if results[i] {
			successes++
		}
	}
	return successes
}

// Two concurrent claims for the same existing user: exactly one succeeds and
// exactly one reward is credited.
func TestConcurrentClaims_SingleCredit(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	svc := newClaimService(testDB)

	// The row exists before either claim starts; both contend on its lock
	testutil.SeedUser(t, testDB.DB, 600, "racer")
	repo := NewUserRepository(testDB.DB)

	successes := raceClaims(t, svc, 600, "racer", 2)
	assert.Equal(t, 1, successes, "exactly one concurrent claim must win")

	user, err := repo.GetByUserID(ctx, 600)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(1)),
		"balance must reflect exactly one reward, got %s", user.Balance)
}

// Two concurrent claims for a user with no prior row at all: the claims race
// the insert itself. The loser's insert is a no-op, it re-reads the winner's
// committed row, and it reports the running cooldown rather than an error.
func TestConcurrentClaims_NoPriorState(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	svc := newClaimService(testDB)
	repo := NewUserRepository(testDB.DB)

	successes := raceClaims(t, svc, 601, "fresh", 2)
	assert.Equal(t, 1, successes, "exactly one first-contact claim must win")

	user, err := repo.GetByUserID(ctx, 601)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(1)),
		"balance must reflect exactly one reward, got %s", user.Balance)

	var rows int
	err = testDB.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE user_id = $1`, int64(601)).Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}
