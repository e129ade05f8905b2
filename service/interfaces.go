package service

import (
	"context"
	"time"

	"faucet/events"
	"faucet/models"

	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByUserID retrieves a user by their chat user ID
	GetByUserID(ctx context.Context, userID int64) (*models.User, error)

	// GetByUserIDForUpdate retrieves a user and locks the row for the
	// remainder of the transaction, serializing same-user claims
	GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.User, error)

	// Create inserts a new user with a zero balance. Returns nil without
	// error when the row already exists; the caller re-reads the row a
	// concurrent first contact inserted.
	Create(ctx context.Context, userID int64, username string) (*models.User, error)

	// CreditReward adds amount to the balance and advances last_reward_at to
	// claimedAt in one statement. The update is conditional on the stored
	// last_reward_at still matching observedRewardAt; a concurrent claim that
	// got there first surfaces as ErrRewardConflict.
	CreditReward(ctx context.Context, userID int64, amount decimal.Decimal, claimedAt time.Time, observedRewardAt *time.Time) (*models.User, error)

	// LinkAccount binds an external account to the user. A unique constraint
	// violation surfaces as ErrAccountLinkedToOther.
	LinkAccount(ctx context.Context, userID int64, account string) error

	// GetByLinkedAccount retrieves the user currently holding an account
	GetByLinkedAccount(ctx context.Context, account string) (*models.User, error)

	// GetTopBalances returns up to limit users ordered by balance descending
	GetTopBalances(ctx context.Context, limit int) ([]*models.User, error)
}

// EventPublisher stages events for delivery after the transaction commits
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork represents a transactional boundary for repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// UserRepository returns the user repository bound to this transaction
	UserRepository() UserRepository

	// EventBus returns the transactional event publisher
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TransferInvoker performs the external token transfer. Implementations may
// shell out to a signing script, call an RPC service, or do nothing at all;
// the mining service only trusts the returned error.
type TransferInvoker interface {
	// Transfer sends amount to the given external account and returns
	// diagnostic text from the underlying tool. A nil error means the
	// transfer definitely succeeded; ErrTransferTimeout means the outcome
	// is unknown.
	Transfer(ctx context.Context, account string, amount decimal.Decimal) (string, error)
}

// MiningService defines the reward ledger and cooldown operations
type MiningService interface {
	// Status reports eligibility, remaining cooldown, and balance. Creates
	// the user row on first contact; never credits a reward.
	Status(ctx context.Context, userID int64, username string) (*models.MiningStatus, error)

	// Claim attempts to grant the reward. An ineligible claim returns a
	// result with Success=false and a nil error; precondition and
	// infrastructure failures return an error.
	Claim(ctx context.Context, userID int64, username string) (*models.ClaimResult, error)

	// TopMiners returns the highest balances for the leaderboard
	TopMiners(ctx context.Context, limit int) ([]*models.User, error)
}

// AccountService defines the external account registry operations
type AccountService interface {
	// Link binds account to the user. Idempotent when the user already
	// holds exactly this account.
	Link(ctx context.Context, userID int64, username string, account string) error

	// Lookup returns the user's linked account, if any
	Lookup(ctx context.Context, userID int64) (string, bool, error)
}
