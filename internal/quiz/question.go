package quiz

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/j0lvera/modebot/internal/config"
)

const (
	minOptions = 3
	maxOptions = 4

	// blockHeightSpread is how far the wrong block-height options sit from the real one.
	blockHeightSpread = 1000
)

// ErrEmptyBank is returned when a quiz is started without questions.
var ErrEmptyBank = errors.New("question bank is empty")

// Question is one multiple-choice question with exactly one correct option.
type Question struct {
	Prompt      string
	Options     []string
	Correct     int
	Explanation string
}

// Validate checks the option count and the correct index.
func (q Question) Validate() error {
	if q.Prompt == "" {
		return errors.New("question prompt is empty")
	}
	if n := len(q.Options); n < minOptions || n > maxOptions {
		return fmt.Errorf("question %q has %d options, want %d to %d", q.Prompt, n, minOptions, maxOptions)
	}
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return fmt.Errorf("question %q has correct index %d outside its options", q.Prompt, q.Correct)
	}
	return nil
}

var printer = message.NewPrinter(language.English)

// WhatIsMode is the opening question of the built-in bank.
var WhatIsMode = Question{
	Prompt: "What is Mode Network?",
	Options: []string{
		"Layer 1 Blockchain",
		"Layer 2 on Ethereum",
		"DeFi Protocol",
		"NFT Platform",
	},
	Correct:     1,
	Explanation: "Mode is an Ethereum Layer 2 scaling solution that enhances transaction speed and reduces costs.",
}

// GasPriceRange closes the built-in bank.
var GasPriceRange = Question{
	Prompt: "What is the typical gas price range on Mode Network?",
	Options: []string{
		"Similar to Ethereum L1",
		"Much higher than L1",
		"Much lower than L1",
		"Zero gas fees",
	},
	Correct:     2,
	Explanation: "Mode Network typically has much lower gas fees compared to Ethereum L1.",
}

// BlockHeightQuestion asks for the approximate current block height.
func BlockHeightQuestion(height uint64) Question {
	low := uint64(0)
	if height > blockHeightSpread {
		low = height - blockHeightSpread
	}

	return Question{
		Prompt: "What is the approximate current block height of Mode Network?",
		Options: []string{
			printer.Sprintf("%d", low),
			printer.Sprintf("%d", height),
			printer.Sprintf("%d", height+blockHeightSpread),
			"None of the above",
		},
		Correct:     1,
		Explanation: printer.Sprintf("The current block height is %d.", height),
	}
}

// FromConfig converts and validates questions loaded from config.toml.
func FromConfig(qs []config.Question) ([]Question, error) {
	out := make([]Question, 0, len(qs))
	for i, q := range qs {
		question := Question{
			Prompt:      q.Prompt,
			Options:     append([]string(nil), q.Options...),
			Correct:     q.Correct,
			Explanation: q.Explanation,
		}
		if err := question.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, question)
	}
	return out, nil
}
