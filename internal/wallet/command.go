package wallet

import (
	"fmt"
	"strings"

	"github.com/j0lvera/modebot/internal/errs"
)

// SendUsage is shown when a send command cannot be parsed.
const SendUsage = "/send <to_address> <amount> <token>"

// SendCommand is a parsed "/send <to> <amount> <token>" message.
type SendCommand struct {
	To     string
	Amount string
	Token  string
}

// ParseSend splits text into the command and its three arguments. Only the
// shape is checked; addresses, amounts and symbols are left to the provider.
func ParseSend(text string) (SendCommand, error) {
	fields := strings.Fields(text)
	if len(fields) != 4 {
		return SendCommand{}, fmt.Errorf("%w: want %q, got %d fields", errs.ErrMalformedCommand, SendUsage, len(fields))
	}

	// accept /send@botname as well, which Telegram sends in groups
	name, _, _ := strings.Cut(fields[0], "@")
	if name != "/send" {
		return SendCommand{}, fmt.Errorf("%w: unexpected command %q", errs.ErrMalformedCommand, fields[0])
	}

	return SendCommand{
		To:     fields[1],
		Amount: fields[2],
		Token:  strings.ToUpper(fields[3]),
	}, nil
}
