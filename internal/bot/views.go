package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/j0lvera/modebot/internal/chain"
	"github.com/j0lvera/modebot/internal/errs"
	"github.com/j0lvera/modebot/internal/quiz"
	"github.com/j0lvera/modebot/internal/wallet"
)

var printer = message.NewPrinter(language.English)

// maxMessageLen is Telegram's limit on message text, in UTF-16 code units.
// Counting runes stays under it for everything but astral-plane text.
const maxMessageLen = 4096

const (
	welcomeText = `👋 Welcome to the Mode Network assistant!

I can show live network stats, analyze network health with AI, quiz you on Mode and answer your questions.

Pick an option below or just ask me anything.`

	helpText = `❓ Help

• 📊 Network Stats: block height, gas price and transactions in the latest block
• 🤖 AI Analysis: an AI review of the current network metrics
• 🎯 Mode Quiz: test your Mode Network knowledge
• 📈 Network Metrics: detailed metrics of the latest block

Commands:
/start show the menu
/stats network stats
/quiz start a quiz
/exit leave the current quiz
/clear forget our conversation

Any other message is answered by the AI assistant.`

	walletHelpText = `

Wallet commands:
/createwallet create your wallet
/balance show your token balances
/send <to> <amount> <token> send tokens`

	statsUnavailableText  = "⚠️ Unable to fetch network stats. Please try again later."
	aiUnavailableText     = "⚠️ Sorry, I couldn't reach the AI service. Please try again later."
	walletUnavailableText = "⚠️ The wallet service is unavailable. Please try again later."
	noSessionText         = "There is no active quiz. Tap 🎯 Mode Quiz to start one."
	invalidOptionText     = "That option isn't available for this question."
	staleAnswerText       = "That button belongs to an earlier question. Please answer the latest one."
	genericErrorText      = "Sorry, I encountered an error. Please try again."
	noWalletText          = "You don't have a wallet yet. Use /createwallet first."
	quizExitText          = "Quiz exited. Come back any time!"
	historyClearedText    = "Conversation cleared. Starting fresh!"
	unknownCommandText    = "I don't know that command. Send /help to see what I can do."
	walletRejectedText    = "⚠️ The wallet service rejected the request: %s"
)

// apology maps an error kind to the single message shown for it.
func apology(err error) string {
	var pe *errs.ProviderError
	var rejected *wallet.RequestError
	switch {
	case errors.As(err, &rejected):
		return fmt.Sprintf(walletRejectedText, rejected.Message)
	case errors.As(err, &pe):
		switch pe.Provider {
		case "blockchain":
			return statsUnavailableText
		case "ai":
			return aiUnavailableText
		case "wallet":
			return walletUnavailableText
		}
		return genericErrorText
	case errors.Is(err, errs.ErrNoActiveSession):
		return noSessionText
	case errors.Is(err, errs.ErrInvalidOption):
		return invalidOptionText
	case errors.Is(err, errs.ErrStaleAnswer):
		return staleAnswerText
	case errors.Is(err, errs.ErrMalformedCommand):
		return "Usage: " + wallet.SendUsage
	case errors.Is(err, wallet.ErrNoWallet):
		return noWalletText
	default:
		return genericErrorText
	}
}

func statsView(snap *chain.NetworkSnapshot) string {
	return printer.Sprintf(`📊 Mode Network Stats

• Block Height: %d
• Gas Price: %s Gwei
• Transactions (Last Block): %d`,
		snap.BlockHeight(),
		snap.GasPriceGwei().String(),
		snap.TxCount(),
	)
}

func metricsView(snap *chain.NetworkSnapshot) string {
	return printer.Sprintf(`📈 Mode Network Metrics

• Latest Block: %d
• Block Time: %s
• Block Size: %s
• Transactions: %d
• Gas Price: %s Gwei`,
		snap.BlockHeight(),
		snap.BlockTime().Format(time.RFC1123),
		snap.BlockSize(),
		snap.TxCount(),
		snap.GasPriceGwei().String(),
	)
}

// staleNote is appended to a view built from an expired snapshot.
func staleNote(capturedAt, now time.Time) string {
	age := now.Sub(capturedAt).Truncate(time.Second)
	return fmt.Sprintf("\n\n⚠️ Live data is unavailable, showing values from %s ago.", age)
}

func analysisView(snap *chain.NetworkSnapshot, insights string) string {
	return printer.Sprintf(`🤖 AI Network Analysis

📊 Current Metrics:
• Block Height: %d
• Gas Price: %s Gwei
• Transactions: %d

💡 AI Insights:
%s`,
		snap.BlockHeight(),
		snap.GasPriceGwei().String(),
		snap.TxCount(),
		insights,
	)
}

func questionView(step quiz.Step) string {
	return fmt.Sprintf("🎯 Question %d of %d\n\n%s", step.Index+1, step.Total, step.Question.Prompt)
}

func answerView(out quiz.Outcome) string {
	var b strings.Builder
	if out.Correct {
		b.WriteString("✅ Correct!")
	} else {
		fmt.Fprintf(&b, "❌ Incorrect. The answer was: %s", out.Answer.Options[out.Answer.Correct])
	}
	if out.Answer.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(out.Answer.Explanation)
	}
	return b.String()
}

func finishedView(score, total, bestScore, bestTotal int, hasBest bool) string {
	text := fmt.Sprintf("🏁 Quiz complete! You scored %d out of %d.", score, total)
	if hasBest {
		text += fmt.Sprintf("\nYour best so far: %d out of %d.", bestScore, bestTotal)
	}
	return text
}

func walletView(w wallet.Wallet, created bool) string {
	if created {
		return fmt.Sprintf("👛 Wallet created!\n\nAddress: %s\nNetwork: %s", w.Address, w.Blockchain)
	}
	return fmt.Sprintf("👛 You already have a wallet.\n\nAddress: %s\nNetwork: %s", w.Address, w.Blockchain)
}

func balanceView(w wallet.Wallet, balances []wallet.Balance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 Balances for %s\n", w.Address)
	if len(balances) == 0 {
		b.WriteString("\nNo tokens yet.")
		return b.String()
	}
	for _, bal := range balances {
		fmt.Fprintf(&b, "\n• %s: %s", bal.Symbol, bal.Amount)
	}
	return b.String()
}

func transferView(cmd wallet.SendCommand, t wallet.Transfer) string {
	return fmt.Sprintf("📤 Sending %s %s to %s\n\nTransfer: %s\nState: %s", cmd.Amount, cmd.Token, cmd.To, t.ID, t.State)
}

// chunks splits text into pieces that fit in one message.
func chunks(text string) []string {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		n := min(len(runes), maxMessageLen)
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	return parts
}
