package testutil

import (
	"context"
	"testing"

	"faucet/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// SeedUser inserts a user row with a zero balance
func SeedUser(t *testing.T, db *database.DB, userID int64, username string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (user_id, username) VALUES ($1, $2)`,
		userID, username)
	require.NoError(t, err)
}

// SeedUserWithBalance inserts a user row carrying a balance and a matching
// last_reward_at so the row looks like it earned the balance through claims
func SeedUserWithBalance(t *testing.T, db *database.DB, userID int64, username string, balance decimal.Decimal) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (user_id, username, balance, last_reward_at) VALUES ($1, $2, $3, NOW())`,
		userID, username, balance)
	require.NoError(t, err)
}

// SeedUserWithLink inserts a user row holding a linked account
func SeedUserWithLink(t *testing.T, db *database.DB, userID int64, username, account string) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO users (user_id, username, linked_account) VALUES ($1, $2, $3)`,
		userID, username, account)
	require.NoError(t, err)
}
