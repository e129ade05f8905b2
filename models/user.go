package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a chat user with a mining balance.
// LinkedAccount and LastRewardAt are nil until the user links an external
// ledger account or claims a first reward, respectively.
type User struct {
	UserID        int64           `db:"user_id"`
	Username      string          `db:"username"`
	Balance       decimal.Decimal `db:"balance"`
	LinkedAccount *string         `db:"linked_account"`
	LastRewardAt  *time.Time      `db:"last_reward_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
