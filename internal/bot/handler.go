package bot

import (
	"context"
	"errors"
	"strings"
	"time"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/j0lvera/modebot/internal/ai"
	"github.com/j0lvera/modebot/internal/chain"
	"github.com/j0lvera/modebot/internal/db"
	"github.com/j0lvera/modebot/internal/errs"
	"github.com/j0lvera/modebot/internal/quiz"
	"github.com/j0lvera/modebot/internal/wallet"
)

// Sender is the part of *tbot.Bot the handlers talk to.
type Sender interface {
	SendMessage(ctx context.Context, params *tbot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *tbot.SendChatActionParams) (bool, error)
	AnswerCallbackQuery(ctx context.Context, params *tbot.AnswerCallbackQueryParams) (bool, error)
}

// Stats serves network snapshots.
type Stats interface {
	Snapshot(ctx context.Context, now time.Time) (*chain.NetworkSnapshot, error)
	Stale() (*chain.NetworkSnapshot, time.Time, bool)
}

type Users interface {
	UpsertUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*db.User, error)
}

type QuizResults interface {
	Record(ctx context.Context, telegramID int64, score, total int) error
	Best(ctx context.Context, telegramID int64) (score, total int, ok bool, err error)
}

type Wallets interface {
	Create(ctx context.Context, telegramID int64) (wallet.Wallet, bool, error)
	Balances(ctx context.Context, telegramID int64) (wallet.Wallet, []wallet.Balance, error)
	Send(ctx context.Context, telegramID int64, text string) (wallet.SendCommand, wallet.Transfer, error)
}

// Deps are the services a Handler dispatches to. Wallets is nil when the
// wallet commands are disabled.
type Deps struct {
	Stats       Stats
	Quiz        *quiz.Machine
	Bank        *quiz.Bank
	AI          ai.Completer
	History     *ai.History
	Users       Users
	QuizResults QuizResults
	Wallets     Wallets
	Logger      *zerolog.Logger
	Now         func() time.Time
}

// Handler routes Telegram updates to the bot's features.
type Handler struct {
	Deps
}

func NewHandler(deps Deps) *Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		nop := zerolog.Nop()
		deps.Logger = &nop
	}
	return &Handler{Deps: deps}
}

// Handle dispatches one update. Every failure ends in a reply to the user;
// none of them stops the bot.
func (h *Handler) Handle(ctx context.Context, s Sender, update *models.Update) {
	switch {
	case update.CallbackQuery != nil:
		h.handleCallback(ctx, s, update.CallbackQuery)
	case update.Message != nil && update.Message.Text != "":
		h.handleMessage(ctx, s, update.Message)
	}
}

func (h *Handler) handleMessage(ctx context.Context, s Sender, msg *models.Message) {
	chatID := msg.Chat.ID

	if msg.From == nil {
		h.Logger.Warn().Int64("chat_id", chatID).Msg("received message without user info")
		return
	}
	userID := msg.From.ID

	switch command(msg.Text) {
	case "":
		h.answerQuestion(ctx, s, chatID, msg.Text)
	case "/start":
		h.upsertUser(ctx, msg.From)
		h.send(ctx, s, chatID, welcomeText, mainMenu())
	case "/help":
		h.showHelp(ctx, s, chatID)
	case "/stats":
		h.showStats(ctx, s, chatID)
	case "/metrics":
		h.showMetrics(ctx, s, chatID)
	case "/quiz":
		h.startQuiz(ctx, s, chatID, userID)
	case "/exit":
		h.exitQuiz(ctx, s, chatID, userID)
	case "/clear":
		h.History.Clear(chatID)
		h.send(ctx, s, chatID, historyClearedText, nil)
		h.Logger.Info().Int64("chat_id", chatID).Msg("history cleared by user")
	case "/createwallet", "/balance", "/send":
		if h.Wallets == nil {
			h.send(ctx, s, chatID, unknownCommandText, nil)
			return
		}
		h.handleWallet(ctx, s, chatID, userID, msg.Text)
	default:
		h.send(ctx, s, chatID, unknownCommandText, nil)
	}
}

func (h *Handler) handleCallback(ctx context.Context, s Sender, cq *models.CallbackQuery) {
	// stop the client's loading spinner first; a failure here is cosmetic
	if _, err := s.AnswerCallbackQuery(ctx, &tbot.AnswerCallbackQueryParams{
		CallbackQueryID: cq.ID,
	}); err != nil {
		h.Logger.Warn().Err(err).Str("callback_id", cq.ID).Msg("unable to answer callback query")
	}

	chatID := cq.From.ID
	if cq.Message.Message != nil {
		chatID = cq.Message.Message.Chat.ID
	}
	userID := cq.From.ID

	h.Logger.Debug().
		Int64("chat_id", chatID).
		Int64("user_id", userID).
		Str("data", cq.Data).
		Msg("callback received")

	switch cq.Data {
	case cbStats:
		h.showStats(ctx, s, chatID)
	case cbMetrics:
		h.showMetrics(ctx, s, chatID)
	case cbAIAnalysis:
		h.showAnalysis(ctx, s, chatID)
	case cbQuiz:
		h.startQuiz(ctx, s, chatID, userID)
	case cbQuizExit:
		h.exitQuiz(ctx, s, chatID, userID)
	case cbHelp:
		h.showHelp(ctx, s, chatID)
	default:
		if question, option, ok := parseQuizAnswer(cq.Data); ok {
			h.answerQuiz(ctx, s, chatID, userID, question, option)
			return
		}
		h.Logger.Warn().Str("data", cq.Data).Msg("unknown callback data")
	}
}

func (h *Handler) showHelp(ctx context.Context, s Sender, chatID int64) {
	text := helpText
	if h.Wallets != nil {
		text += walletHelpText
	}
	h.send(ctx, s, chatID, text, mainMenu())
}

func (h *Handler) showStats(ctx context.Context, s Sender, chatID int64) {
	h.showSnapshot(ctx, s, chatID, statsView)
}

func (h *Handler) showMetrics(ctx context.Context, s Sender, chatID int64) {
	h.showSnapshot(ctx, s, chatID, metricsView)
}

// showSnapshot renders a fresh snapshot, or the last good one with a note
// when the node can't be reached.
func (h *Handler) showSnapshot(ctx context.Context, s Sender, chatID int64, view func(*chain.NetworkSnapshot) string) {
	now := h.Now()
	snap, err := h.Stats.Snapshot(ctx, now)
	if err == nil {
		h.send(ctx, s, chatID, view(snap), nil)
		return
	}

	h.Logger.Error().Err(err).Int64("chat_id", chatID).Msg("unable to get network snapshot")

	if stale, capturedAt, ok := h.Stats.Stale(); ok {
		h.send(ctx, s, chatID, view(stale)+staleNote(capturedAt, now), nil)
		return
	}
	h.send(ctx, s, chatID, apology(err), nil)
}

func (h *Handler) showAnalysis(ctx context.Context, s Sender, chatID int64) {
	snap, err := h.Stats.Snapshot(ctx, h.Now())
	if err != nil {
		h.Logger.Error().Err(err).Int64("chat_id", chatID).Msg("unable to get snapshot for analysis")
		h.send(ctx, s, chatID, apology(err), nil)
		return
	}

	h.typing(ctx, s, chatID)

	h.Logger.Info().Int64("chat_id", chatID).Msg("ai analysis request sending")
	insights, err := h.AI.Complete(ctx, ai.AnalysisPrompt(snap), nil)
	if err != nil {
		h.Logger.Error().Err(err).Int64("chat_id", chatID).Msg("unable to generate ai analysis")
		h.send(ctx, s, chatID, apology(err), nil)
		return
	}

	h.send(ctx, s, chatID, analysisView(snap, insights), nil)
}

// answerQuestion sends free text to the AI with network context. A missing
// snapshot degrades the context to N/A instead of failing the question.
func (h *Handler) answerQuestion(ctx context.Context, s Sender, chatID int64, question string) {
	snap, err := h.Stats.Snapshot(ctx, h.Now())
	if err != nil {
		h.Logger.Warn().Err(err).Int64("chat_id", chatID).Msg("answering without network context")
		snap = nil
	}

	h.typing(ctx, s, chatID)

	history := h.History.Messages(chatID)

	h.Logger.Info().Int64("chat_id", chatID).Int("history", len(history)).Msg("ai request sending")
	reply, err := h.AI.Complete(ctx, ai.QuestionPrompt(snap, question), history)
	if err != nil {
		h.Logger.Error().Err(err).Int64("chat_id", chatID).Msg("unable to generate ai response")
		h.send(ctx, s, chatID, apology(err), nil)
		return
	}
	h.Logger.Info().Int64("chat_id", chatID).Msg("ai response received")

	h.History.Add(chatID, ai.RoleUser, question)
	h.History.Add(chatID, ai.RoleAssistant, reply)

	h.send(ctx, s, chatID, reply, nil)
}

func (h *Handler) startQuiz(ctx context.Context, s Sender, chatID, userID int64) {
	snap, err := h.Stats.Snapshot(ctx, h.Now())
	if err != nil {
		h.Logger.Warn().Err(err).Int64("user_id", userID).Msg("starting quiz without block height question")
		snap = nil
	}

	step, err := h.Quiz.Start(userID, h.Bank.Questions(snap))
	if err != nil {
		h.Logger.Error().Err(err).Int64("user_id", userID).Msg("unable to start quiz")
		h.send(ctx, s, chatID, apology(err), nil)
		return
	}

	h.sendStep(ctx, s, chatID, step)
}

func (h *Handler) answerQuiz(ctx context.Context, s Sender, chatID, userID int64, question, option int) {
	out, err := h.Quiz.Submit(userID, question, option)
	if err != nil {
		if !errors.Is(err, errs.ErrNoActiveSession) &&
			!errors.Is(err, errs.ErrInvalidOption) &&
			!errors.Is(err, errs.ErrStaleAnswer) {
			h.Logger.Error().Err(err).Int64("user_id", userID).Msg("unable to submit quiz answer")
		}
		h.send(ctx, s, chatID, apology(err), nil)
		return
	}

	h.send(ctx, s, chatID, answerView(out), nil)

	if out.Next != nil {
		h.sendStep(ctx, s, chatID, *out.Next)
		return
	}
	if out.Finished {
		h.finishQuiz(ctx, s, chatID, userID, out)
	}
}

// finishQuiz stores the result and reports it along with the user's best.
// Storage errors only cost the best-score line.
func (h *Handler) finishQuiz(ctx context.Context, s Sender, chatID, userID int64, out quiz.Outcome) {
	if err := h.QuizResults.Record(ctx, userID, out.Score, out.Total); err != nil {
		h.Logger.Error().Err(err).Int64("user_id", userID).Msg("unable to record quiz result")
	}

	bestScore, bestTotal, ok, err := h.QuizResults.Best(ctx, userID)
	if err != nil {
		h.Logger.Error().Err(err).Int64("user_id", userID).Msg("unable to get best quiz result")
		ok = false
	}

	h.send(ctx, s, chatID, finishedView(out.Score, out.Total, bestScore, bestTotal, ok), mainMenu())
}

func (h *Handler) exitQuiz(ctx context.Context, s Sender, chatID, userID int64) {
	h.Quiz.Exit(userID)
	h.send(ctx, s, chatID, quizExitText, mainMenu())
}

func (h *Handler) sendStep(ctx context.Context, s Sender, chatID int64, step quiz.Step) {
	h.send(ctx, s, chatID, questionView(step), quizKeyboard(step))
}

func (h *Handler) handleWallet(ctx context.Context, s Sender, chatID, userID int64, text string) {
	h.typing(ctx, s, chatID)

	switch command(text) {
	case "/createwallet":
		w, created, err := h.Wallets.Create(ctx, userID)
		if err != nil {
			h.walletError(ctx, s, chatID, userID, err)
			return
		}
		h.send(ctx, s, chatID, walletView(w, created), nil)
	case "/balance":
		w, balances, err := h.Wallets.Balances(ctx, userID)
		if err != nil {
			h.walletError(ctx, s, chatID, userID, err)
			return
		}
		h.send(ctx, s, chatID, balanceView(w, balances), nil)
	case "/send":
		cmd, transfer, err := h.Wallets.Send(ctx, userID, strings.TrimSpace(text))
		if err != nil {
			h.walletError(ctx, s, chatID, userID, err)
			return
		}
		h.send(ctx, s, chatID, transferView(cmd, transfer), nil)
	}
}

func (h *Handler) walletError(ctx context.Context, s Sender, chatID, userID int64, err error) {
	var rejected *wallet.RequestError
	switch {
	case errors.Is(err, errs.ErrMalformedCommand), errors.Is(err, wallet.ErrNoWallet):
	case errors.As(err, &rejected):
		h.Logger.Warn().Err(err).Int64("user_id", userID).Msg("wallet request rejected")
	default:
		h.Logger.Error().Err(err).Int64("user_id", userID).Msg("wallet command failed")
	}
	h.send(ctx, s, chatID, apology(err), nil)
}

func (h *Handler) upsertUser(ctx context.Context, from *models.User) {
	if h.Users == nil {
		return
	}
	if _, err := h.Users.UpsertUser(ctx, from.ID, from.Username, from.FirstName, from.LastName, from.LanguageCode); err != nil {
		h.Logger.Error().Err(err).Int64("user_id", from.ID).Msg("unable to upsert user")
	}
}

func (h *Handler) typing(ctx context.Context, s Sender, chatID int64) {
	if _, err := s.SendChatAction(ctx, &tbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		h.Logger.Debug().Err(err).Int64("chat_id", chatID).Msg("unable to send typing action")
	}
}

// send delivers text, split to fit Telegram's limit. The keyboard goes on
// the last part.
func (h *Handler) send(ctx context.Context, s Sender, chatID int64, text string, markup *models.InlineKeyboardMarkup) {
	parts := chunks(text)
	for i, part := range parts {
		params := &tbot.SendMessageParams{
			ChatID: chatID,
			Text:   part,
		}
		if markup != nil && i == len(parts)-1 {
			params.ReplyMarkup = markup
		}
		if _, err := s.SendMessage(ctx, params); err != nil {
			h.Logger.Error().Err(err).Int64("chat_id", chatID).Msg("unable to send message")
			return
		}
	}
}
