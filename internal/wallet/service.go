package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoWallet is returned when a user without a wallet asks for one of its operations.
var ErrNoWallet = errors.New("user has no wallet")

// Store remembers which wallet belongs to which Telegram user.
type Store interface {
	GetWallet(ctx context.Context, telegramID int64) (Wallet, bool, error)
	// SaveWallet records w unless the user already has a wallet, and returns
	// the wallet on record either way.
	SaveWallet(ctx context.Context, telegramID int64, w Wallet) (Wallet, error)
}

// Service runs the wallet commands for Telegram users.
type Service struct {
	provider    Provider
	store       Store
	blockchain  string
	accountType string
	logger      *zerolog.Logger
}

func NewService(provider Provider, store Store, blockchain, accountType string, logger *zerolog.Logger) *Service {
	return &Service{
		provider:    provider,
		store:       store,
		blockchain:  blockchain,
		accountType: accountType,
		logger:      logger,
	}
}

// Create returns the user's wallet, creating one on first use. created reports
// whether the wallet returned is the one just made; when a concurrent call
// stored its wallet first, that stored wallet is returned instead.
func (s *Service) Create(ctx context.Context, telegramID int64) (w Wallet, created bool, err error) {
	existing, ok, err := s.store.GetWallet(ctx, telegramID)
	if err != nil {
		return Wallet{}, false, fmt.Errorf("failed to look up wallet: %w", err)
	}
	if ok {
		return existing, false, nil
	}

	w, err = s.provider.CreateWallet(ctx, s.blockchain, s.accountType)
	if err != nil {
		return Wallet{}, false, err
	}

	stored, err := s.store.SaveWallet(ctx, telegramID, w)
	if err != nil {
		return Wallet{}, false, fmt.Errorf("failed to save wallet: %w", err)
	}
	if stored.ID != w.ID {
		s.logger.Warn().
			Int64("user_id", telegramID).
			Str("discarded_wallet_id", w.ID).
			Str("wallet_id", stored.ID).
			Msg("wallet already stored by a concurrent request")
		return stored, false, nil
	}

	s.logger.Info().
		Int64("user_id", telegramID).
		Str("address", w.Address).
		Str("blockchain", w.Blockchain).
		Msg("wallet created")

	return w, true, nil
}

// Balances lists the token balances of the user's wallet.
func (s *Service) Balances(ctx context.Context, telegramID int64) (Wallet, []Balance, error) {
	w, err := s.wallet(ctx, telegramID)
	if err != nil {
		return Wallet{}, nil, err
	}

	balances, err := s.provider.Balances(ctx, w.Address)
	if err != nil {
		return Wallet{}, nil, err
	}
	return w, balances, nil
}

// Send parses a send command and submits the transfer from the user's wallet.
func (s *Service) Send(ctx context.Context, telegramID int64, text string) (SendCommand, Transfer, error) {
	cmd, err := ParseSend(text)
	if err != nil {
		return SendCommand{}, Transfer{}, err
	}

	w, err := s.wallet(ctx, telegramID)
	if err != nil {
		return cmd, Transfer{}, err
	}

	transfer, err := s.provider.Transfer(ctx, w.Address, cmd.To, cmd.Amount, cmd.Token)
	if err != nil {
		return cmd, Transfer{}, err
	}

	s.logger.Info().
		Int64("user_id", telegramID).
		Str("transfer_id", transfer.ID).
		Str("token", cmd.Token).
		Msg("transfer submitted")

	return cmd, transfer, nil
}

func (s *Service) wallet(ctx context.Context, telegramID int64) (Wallet, error) {
	w, ok, err := s.store.GetWallet(ctx, telegramID)
	if err != nil {
		return Wallet{}, fmt.Errorf("failed to look up wallet: %w", err)
	}
	if !ok {
		return Wallet{}, ErrNoWallet
	}
	return w, nil
}
