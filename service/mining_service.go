package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faucet/config"
	"faucet/events"
	"faucet/models"

	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

// miningService is the claim coordinator. It is the only writer of the
// balance/last-reward pair, and every claim runs the eligibility check, the
// cooldown transition and the credit inside one unit of work.
//
// Cooldown uses the last-timestamp model: the reward is credited at the
// moment an explicit claim succeeds, and a status check is a pure read.
type miningService struct {
	uowFactory    UnitOfWorkFactory
	clock         Clock
	invoker       TransferInvoker // nil when external transfers are disabled
	cooldown      time.Duration
	reward        decimal.Decimal
	requireLinked bool
}

// NewMiningService creates a new mining service
func NewMiningService(uowFactory UnitOfWorkFactory, clock Clock, invoker TransferInvoker, cfg *config.Config) MiningService {
	return &miningService{
		uowFactory:    uowFactory,
		clock:         clock,
		invoker:       invoker,
		cooldown:      cfg.Cooldown,
		reward:        cfg.RewardAmount,
		requireLinked: cfg.RequireLinkedAccount,
	}
}

func (s *miningService) Status(ctx context.Context, userID int64, username string) (*models.MiningStatus, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := getOrCreateUser(ctx, uow, userID, username)
	if err != nil {
		return nil, err
	}

	remaining := s.remainingWait(user, s.clock.Now())

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.MiningStatus{
		Eligible:  remaining == 0,
		Remaining: remaining,
		Balance:   user.Balance,
		Cooldown:  s.cooldown,
	}, nil
}

func (s *miningService) Claim(ctx context.Context, userID int64, username string) (*models.ClaimResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Lock the user row so concurrent claims for the same user serialize
	// behind this transaction.
	user, err := uow.UserRepository().GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		user, err = uow.UserRepository().Create(ctx, userID, username)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		if user != nil {
			uow.EventBus().Publish(events.UserCreatedEvent{
				UserID:   userID,
				Username: username,
			})
		} else {
			// A concurrent first claim inserted the row after our read. Lock
			// the committed row and judge eligibility against its state.
			user, err = uow.UserRepository().GetByUserIDForUpdate(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to get user: %w", err)
			}
			if user == nil {
				return nil, fmt.Errorf("user %d missing after concurrent create", userID)
			}
		}
	}

	// Precondition check before any reward state is touched. A transfer
	// needs a destination, so an enabled invoker implies the requirement.
	if s.requireLinked || s.invoker != nil {
		if user.LinkedAccount == nil {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNoLinkedAccount)
		}
	}

	now := s.clock.Now()
	if remaining := s.remainingWait(user, now); remaining > 0 {
		return &models.ClaimResult{
			Success:   false,
			Balance:   user.Balance,
			Remaining: remaining,
		}, nil
	}

	// The external transfer happens before the local credit: an unknown or
	// failed outcome rolls the transaction back and the ledger stays
	// exactly as it was.
	if s.invoker != nil {
		diagnostic, err := s.invoker.Transfer(ctx, *user.LinkedAccount, s.reward)
		if err != nil {
			return nil, fmt.Errorf("external transfer to %s: %w", *user.LinkedAccount, err)
		}
		log.WithFields(log.Fields{
			"userID":     userID,
			"account":    *user.LinkedAccount,
			"amount":     s.reward,
			"diagnostic": diagnostic,
		}).Info("External transfer succeeded")
	}

	updated, err := uow.UserRepository().CreditReward(ctx, userID, s.reward, now, user.LastRewardAt)
	if err != nil {
		if errors.Is(err, ErrRewardConflict) {
			// Another claim committed between our read and the update. The
			// row lock makes this unreachable in practice; keep the guard
			// and report the claim as ineligible.
			return &models.ClaimResult{
				Success:   false,
				Balance:   user.Balance,
				Remaining: s.cooldown,
			}, nil
		}
		return nil, fmt.Errorf("failed to credit reward: %w", err)
	}

	uow.EventBus().Publish(events.RewardClaimedEvent{
		UserID:     userID,
		Reward:     s.reward,
		OldBalance: user.Balance,
		NewBalance: updated.Balance,
		ClaimedAt:  now,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.ClaimResult{
		Success:   true,
		Reward:    s.reward,
		Balance:   updated.Balance,
		Remaining: s.cooldown,
	}, nil
}

func (s *miningService) TopMiners(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetTopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}

	return users, nil
}

// remainingWait returns how long the user must still wait before the next
// reward. Eligibility is boundary inclusive: elapsed == cooldown is eligible.
func (s *miningService) remainingWait(user *models.User, now time.Time) time.Duration {
	if user.LastRewardAt == nil {
		return 0
	}
	elapsed := now.Sub(*user.LastRewardAt)
	if elapsed >= s.cooldown {
		return 0
	}
	return s.cooldown - elapsed
}
