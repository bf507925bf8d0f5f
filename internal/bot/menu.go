package bot

import (
	"strconv"
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/j0lvera/modebot/internal/quiz"
)

// Callback data sent by the inline keyboards.
const (
	cbStats      = "stats"
	cbAIAnalysis = "ai_analysis"
	cbQuiz       = "quiz"
	cbMetrics    = "metrics"
	cbHelp       = "help"

	// answers are "quiz:<question>:<option>", both zero-based
	cbQuizAnswerPrefix = "quiz:"
	cbQuizExit         = "quiz:exit"
)

func mainMenu() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "📊 Network Stats", CallbackData: cbStats},
				{Text: "🤖 AI Analysis", CallbackData: cbAIAnalysis},
			},
			{
				{Text: "🎯 Mode Quiz", CallbackData: cbQuiz},
				{Text: "📈 Network Metrics", CallbackData: cbMetrics},
			},
			{
				{Text: "❓ Help", CallbackData: cbHelp},
			},
		},
	}
}

// quizKeyboard has one row per option plus an exit row.
func quizKeyboard(step quiz.Step) *models.InlineKeyboardMarkup {
	options := step.Question.Options
	rows := make([][]models.InlineKeyboardButton, 0, len(options)+1)
	for i, opt := range options {
		rows = append(rows, []models.InlineKeyboardButton{
			{Text: opt, CallbackData: quizAnswerData(step.Index, i)},
		})
	}
	rows = append(rows, []models.InlineKeyboardButton{
		{Text: "🚪 Exit quiz", CallbackData: cbQuizExit},
	})
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func quizAnswerData(question, option int) string {
	return cbQuizAnswerPrefix + strconv.Itoa(question) + ":" + strconv.Itoa(option)
}

// parseQuizAnswer extracts the question and option from "quiz:<q>:<opt>".
func parseQuizAnswer(data string) (question, option int, ok bool) {
	rest, ok := strings.CutPrefix(data, cbQuizAnswerPrefix)
	if !ok {
		return 0, 0, false
	}
	q, opt, ok := strings.Cut(rest, ":")
	if !ok {
		return 0, 0, false
	}
	question, err := strconv.Atoi(q)
	if err != nil {
		return 0, 0, false
	}
	option, err = strconv.Atoi(opt)
	if err != nil {
		return 0, 0, false
	}
	return question, option, true
}

// command returns the leading /command of text without any @botname suffix.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(name)
}
