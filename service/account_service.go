package service

import (
	"context"
	"fmt"

	"faucet/events"
	"faucet/models"
)

// accountService implements the AccountService interface. The account value
// is treated as an opaque, uniquely assignable string; format validation
// belongs to the transport layer.
type accountService struct {
	uowFactory UnitOfWorkFactory
}

// NewAccountService creates a new account service
func NewAccountService(uowFactory UnitOfWorkFactory) AccountService {
	return &accountService{
		uowFactory: uowFactory,
	}
}

func (s *accountService) Link(ctx context.Context, userID int64, username string, account string) error {
	if account == "" {
		return fmt.Errorf("account must not be empty")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := getOrCreateUser(ctx, uow, userID, username)
	if err != nil {
		return err
	}

	if user.LinkedAccount != nil {
		if *user.LinkedAccount == account {
			// Already holds exactly this account
			return uow.Commit()
		}
		return fmt.Errorf("user %d holds account %s: %w", userID, *user.LinkedAccount, ErrAlreadyLinked)
	}

	// Check the holder before inserting for a clean error; the unique index
	// still backs this up under concurrent links.
	holder, err := uow.UserRepository().GetByLinkedAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to look up account holder: %w", err)
	}
	if holder != nil {
		return fmt.Errorf("account %s is held by user %d: %w", account, holder.UserID, ErrAccountLinkedToOther)
	}

	if err := uow.UserRepository().LinkAccount(ctx, userID, account); err != nil {
		return fmt.Errorf("failed to link account: %w", err)
	}

	uow.EventBus().Publish(events.AccountLinkedEvent{
		UserID:  userID,
		Account: account,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *accountService) Lookup(ctx context.Context, userID int64) (string, bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByUserID(ctx, userID)
	if err != nil {
		return "", false, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.LinkedAccount == nil {
		return "", false, nil
	}

	return *user.LinkedAccount, true, nil
}

// getOrCreateUser fetches the user row inside the current unit of work,
// creating it (and publishing UserCreatedEvent) on first contact.
func getOrCreateUser(ctx context.Context, uow UnitOfWork, userID int64, username string) (*models.User, error) {
	user, err := uow.UserRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if user == nil {
		// A concurrent first contact inserted the row after our read
		user, err = uow.UserRepository().GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, fmt.Errorf("user %d missing after concurrent create", userID)
		}
		return user, nil
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:   userID,
		Username: username,
	})

	return user, nil
}
