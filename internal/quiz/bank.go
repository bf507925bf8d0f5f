package quiz

import "github.com/j0lvera/modebot/internal/chain"

// Bank is the static question content plus the live block-height question.
type Bank struct {
	static []Question
}

// DefaultQuestions is used when config.toml defines no questions.
var DefaultQuestions = []Question{WhatIsMode, GasPriceRange}

// NewBank creates a bank over static; an empty slice selects DefaultQuestions.
func NewBank(static []Question) *Bank {
	if len(static) == 0 {
		static = DefaultQuestions
	}
	return &Bank{static: static}
}

// Questions returns a fresh question list. The block-height question goes
// second when snap is available and is skipped otherwise.
func (b *Bank) Questions(snap *chain.NetworkSnapshot) []Question {
	out := make([]Question, 0, len(b.static)+1)
	out = append(out, b.static[0])
	if snap != nil {
		out = append(out, BlockHeightQuestion(snap.BlockHeight()))
	}
	return append(out, b.static[1:]...)
}
