package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tbn01-acc/lifefocus-sub002/internal/config"
	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
	"github.com/tbn01-acc/lifefocus-sub002/internal/repository"
)

var (
	ErrBelowMinWithdrawal    = errors.New("Сумма меньше минимальной для вывода")
	ErrInsufficientBalance   = errors.New("Недостаточно средств на балансе")
	ErrInvalidWithdrawalType = errors.New("Неверный способ вывода")
	ErrWithdrawalNotPending  = errors.New("Заявка уже обработана")
)

type walletStore interface {
	GetWallet(ctx context.Context, userID int64) (*model.Wallet, error)
	GetWalletTransactions(ctx context.Context, userID int64, limit, offset int) ([]model.WalletTransaction, error)
	CreateWithdrawal(ctx context.Context, w *model.WithdrawalRequest) error
	GetWithdrawalsByUser(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error)
	GetPendingWithdrawals(ctx context.Context) ([]model.WithdrawalRequest, error)
	CompleteWithdrawal(ctx context.Context, id uuid.UUID) (*model.WithdrawalRequest, error)
	RejectWithdrawal(ctx context.Context, id uuid.UUID) (*model.WithdrawalRequest, error)
	GetSettingInt(ctx context.Context, key string) (int, error)
}

type WalletService struct {
	store walletStore
}

func NewWalletService(store walletStore) *WalletService {
	return &WalletService{store: store}
}

func (s *WalletService) GetWallet(ctx context.Context, userID int64) (*model.Wallet, error) {
	return s.store.GetWallet(ctx, userID)
}

func (s *WalletService) GetTransactions(ctx context.Context, userID int64, limit, offset int) ([]model.WalletTransaction, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.store.GetWalletTransactions(ctx, userID, limit, offset)
}

// MinWithdrawal returns the operator-tunable minimum, falling back to the
// built-in default.
func (s *WalletService) MinWithdrawal(ctx context.Context) decimal.Decimal {
	if v, err := s.store.GetSettingInt(ctx, "min_withdrawal_rub"); err == nil && v > 0 {
		return decimal.NewFromInt(int64(v))
	}
	return decimal.NewFromInt(config.MinWithdrawalRub)
}

// RequestWithdrawal validates and creates a pending request. Validation
// failures create no row at all.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID int64, amount decimal.Decimal, withdrawalType model.WithdrawalType) (*model.WithdrawalRequest, error) {
	switch withdrawalType {
	case model.WithdrawalTypeCash, model.WithdrawalTypeSubscription, model.WithdrawalTypeGift:
	default:
		return nil, ErrInvalidWithdrawalType
	}

	if amount.LessThan(s.MinWithdrawal(ctx)) {
		return nil, ErrBelowMinWithdrawal
	}

	w := &model.WithdrawalRequest{
		UserID:         userID,
		AmountRub:      amount,
		WithdrawalType: withdrawalType,
	}
	if err := s.store.CreateWithdrawal(ctx, w); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return w, nil
}

func (s *WalletService) GetWithdrawals(ctx context.Context, userID int64) ([]model.WithdrawalRequest, error) {
	return s.store.GetWithdrawalsByUser(ctx, userID)
}

func (s *WalletService) GetPendingWithdrawals(ctx context.Context) ([]model.WithdrawalRequest, error) {
	return s.store.GetPendingWithdrawals(ctx)
}

// CompleteWithdrawal is invoked by the reviewing back office. The debit and
// the terminal transition happen atomically in the store; a request whose
// balance no longer covers the amount is rejected with
// ErrInsufficientBalance and stays pending.
func (s *WalletService) CompleteWithdrawal(ctx context.Context, id uuid.UUID) (*model.WithdrawalRequest, error) {
	w, err := s.store.CompleteWithdrawal(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientBalance):
			return nil, ErrInsufficientBalance
		case errors.Is(err, repository.ErrWithdrawalNotPending):
			return nil, ErrWithdrawalNotPending
		}
		return nil, err
	}
	return w, nil
}

func (s *WalletService) RejectWithdrawal(ctx context.Context, id uuid.UUID) (*model.WithdrawalRequest, error) {
	w, err := s.store.RejectWithdrawal(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrWithdrawalNotPending) {
			return nil, ErrWithdrawalNotPending
		}
		return nil, err
	}
	return w, nil
}
