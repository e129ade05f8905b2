package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faucet/database"
	"faucet/models"
	"faucet/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// queryable abstracts over a pool and a transaction
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `user_id, username, balance, linked_account, last_reward_at, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.Balance,
		&user.LinkedAccount,
		&user.LastRewardAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUserID retrieves a user by their chat user ID
func (r *UserRepository) GetByUserID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return user, nil
}

// GetByUserIDForUpdate retrieves a user and locks the row until the
// transaction ends, serializing concurrent claims for the same user.
func (r *UserRepository) GetByUserIDForUpdate(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 FOR UPDATE`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d for update: %w", userID, err)
	}

	return user, nil
}

// Create inserts a new user with a zero balance. Returns nil without error
// when the row already exists: two first contacts can race the insert, and
// the loser must re-read the winner's row instead of failing.
func (r *UserRepository) Create(ctx context.Context, userID int64, username string) (*models.User, error) {
	query := `
		INSERT INTO users (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, userID, username))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}

	return user, nil
}

// CreditReward adds amount to the balance and advances last_reward_at in one
// conditional statement. IS NOT DISTINCT FROM makes the guard hold for the
// never-rewarded case (NULL) as well. Zero rows affected means the stored
// timestamp moved since it was read and surfaces as ErrRewardConflict.
func (r *UserRepository) CreditReward(ctx context.Context, userID int64, amount decimal.Decimal, claimedAt time.Time, observedRewardAt *time.Time) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("reward amount must be positive")
	}

	query := `
		UPDATE users
		SET balance = balance + $1, last_reward_at = $2, updated_at = NOW()
		WHERE user_id = $3 AND last_reward_at IS NOT DISTINCT FROM $4
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, amount, claimedAt, userID, observedRewardAt))
	if err == pgx.ErrNoRows {
		return nil, service.ErrRewardConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to credit reward for user %d: %w", userID, err)
	}

	return user, nil
}

// LinkAccount binds an external account to the user
func (r *UserRepository) LinkAccount(ctx context.Context, userID int64, account string) error {
	query := `
		UPDATE users
		SET linked_account = $1, updated_at = NOW()
		WHERE user_id = $2 AND linked_account IS NULL
	`

	result, err := r.q.Exec(ctx, query, account, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("account %s: %w", account, service.ErrAccountLinkedToOther)
		}
		return fmt.Errorf("failed to link account for user %d: %w", userID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, service.ErrAlreadyLinked)
	}

	return nil
}

// GetByLinkedAccount retrieves the user currently holding an account
func (r *UserRepository) GetByLinkedAccount(ctx context.Context, account string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE linked_account = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, account))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by account %s: %w", account, err)
	}

	return user, nil
}

// GetTopBalances returns up to limit users ordered by balance descending
func (r *UserRepository) GetTopBalances(ctx context.Context, limit int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE balance > 0
		ORDER BY balance DESC, user_id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
