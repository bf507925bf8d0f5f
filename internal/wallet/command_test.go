package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j0lvera/modebot/internal/errs"
)

func TestParseSend(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    SendCommand
		wantErr bool
	}{
		{
			name: "well formed",
			text: "/send 0xabc 1.5 usdc",
			want: SendCommand{To: "0xabc", Amount: "1.5", Token: "USDC"},
		},
		{
			name: "extra whitespace",
			text: "  /send   0xabc\t10   ETH ",
			want: SendCommand{To: "0xabc", Amount: "10", Token: "ETH"},
		},
		{
			name: "bot mention",
			text: "/send@modebot 0xabc 1 ETH",
			want: SendCommand{To: "0xabc", Amount: "1", Token: "ETH"},
		},
		{name: "missing token", text: "/send 0xabc 1", wantErr: true},
		{name: "too many fields", text: "/send 0xabc 1 ETH now", wantErr: true},
		{name: "empty", text: "", wantErr: true},
		{name: "wrong command", text: "/sned 0xabc 1 ETH", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSend(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrMalformedCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
