package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory(t *testing.T) {
	h := NewHistory(3)

	assert.Empty(t, h.Messages(1))

	h.Add(1, RoleUser, "a")
	h.Add(1, RoleAssistant, "b")
	h.Add(1, RoleUser, "c")
	h.Add(1, RoleAssistant, "d")
	h.Add(2, RoleUser, "other chat")

	got := h.Messages(1)
	assert.Equal(t, []Message{
		{Role: RoleAssistant, Content: "b"},
		{Role: RoleUser, Content: "c"},
		{Role: RoleAssistant, Content: "d"},
	}, got)

	// returned slice is a copy
	got[0].Content = "changed"
	assert.Equal(t, "b", h.Messages(1)[0].Content)

	h.Clear(1)
	assert.Empty(t, h.Messages(1))
	assert.Len(t, h.Messages(2), 1)
}

func TestHistory_ZeroLimit(t *testing.T) {
	h := NewHistory(0)
	h.Add(1, RoleUser, "a")
	assert.Empty(t, h.Messages(1))
}
