package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/j0lvera/modebot/internal/wallet"
)

// User is a Telegram user as stored in the users table.
type User struct {
	ID         int64
	TelegramID int64
	Username   pgtype.Text
	FirstName  pgtype.Text
}

// UserStore manages user data using PostgreSQL
type UserStore struct {
	db DBTX
}

// NewUserStore creates a new user store
func NewUserStore(db DBTX) *UserStore {
	return &UserStore{db: db}
}

const upsertUser = `
INSERT INTO users (telegram_id, username, first_name, last_name, language_code)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (telegram_id) DO UPDATE SET
    username = EXCLUDED.username,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    language_code = EXCLUDED.language_code,
    updated_at = now()
RETURNING id, telegram_id, username, first_name`

// UpsertUser creates or updates a user from Telegram data
func (s *UserStore) UpsertUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*User, error) {
	var u User
	err := s.db.QueryRow(ctx, upsertUser,
		telegramID,
		text(username),
		text(firstName),
		text(lastName),
		text(languageCode),
	).Scan(&u.ID, &u.TelegramID, &u.Username, &u.FirstName)
	if err != nil {
		return nil, fmt.Errorf("unable to upsert user: %w", err)
	}
	return &u, nil
}

// QuizResultStore records finished quizzes.
type QuizResultStore struct {
	db DBTX
}

func NewQuizResultStore(db DBTX) *QuizResultStore {
	return &QuizResultStore{db: db}
}

const insertQuizResult = `INSERT INTO quiz_results (telegram_id, score, total) VALUES ($1, $2, $3)`

// Record stores one finished quiz.
func (s *QuizResultStore) Record(ctx context.Context, telegramID int64, score, total int) error {
	if _, err := s.db.Exec(ctx, insertQuizResult, telegramID, score, total); err != nil {
		return fmt.Errorf("unable to record quiz result: %w", err)
	}
	return nil
}

const selectBestQuizResult = `
SELECT score, total FROM quiz_results
WHERE telegram_id = $1
ORDER BY score::float / NULLIF(total, 0) DESC NULLS LAST, finished_at DESC
LIMIT 1`

// Best returns the user's best score ratio; ok is false when there is none.
func (s *QuizResultStore) Best(ctx context.Context, telegramID int64) (score, total int, ok bool, err error) {
	err = s.db.QueryRow(ctx, selectBestQuizResult, telegramID).Scan(&score, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("unable to get best quiz result: %w", err)
	}
	return score, total, true, nil
}

// WalletStore implements wallet.Store.
type WalletStore struct {
	db DBTX
}

func NewWalletStore(db DBTX) *WalletStore {
	return &WalletStore{db: db}
}

var _ wallet.Store = (*WalletStore)(nil)

const selectWallet = `SELECT wallet_id, address, blockchain FROM wallets WHERE telegram_id = $1`

func (s *WalletStore) GetWallet(ctx context.Context, telegramID int64) (wallet.Wallet, bool, error) {
	var w wallet.Wallet
	err := s.db.QueryRow(ctx, selectWallet, telegramID).Scan(&w.ID, &w.Address, &w.Blockchain)
	if errors.Is(err, pgx.ErrNoRows) {
		return wallet.Wallet{}, false, nil
	}
	if err != nil {
		return wallet.Wallet{}, false, fmt.Errorf("unable to get wallet: %w", err)
	}
	return w, true, nil
}

// the no-op update makes RETURNING yield the existing row on conflict
const insertWallet = `
INSERT INTO wallets (telegram_id, wallet_id, address, blockchain)
VALUES ($1, $2, $3, $4)
ON CONFLICT (telegram_id) DO UPDATE SET telegram_id = wallets.telegram_id
RETURNING wallet_id, address, blockchain`

// SaveWallet stores w for a user without one; the first wallet stored wins.
func (s *WalletStore) SaveWallet(ctx context.Context, telegramID int64, w wallet.Wallet) (wallet.Wallet, error) {
	var stored wallet.Wallet
	err := s.db.QueryRow(ctx, insertWallet, telegramID, w.ID, w.Address, w.Blockchain).
		Scan(&stored.ID, &stored.Address, &stored.Blockchain)
	if err != nil {
		return wallet.Wallet{}, fmt.Errorf("unable to save wallet: %w", err)
	}
	return stored, nil
}

func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
