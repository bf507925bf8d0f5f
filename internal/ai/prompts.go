package ai

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/j0lvera/modebot/internal/chain"
)

const notAvailable = "N/A"

var printer = message.NewPrinter(language.English)

// AnalysisPrompt asks for a network health analysis of snap.
func AnalysisPrompt(snap *chain.NetworkSnapshot) string {
	return printer.Sprintf(`Analyze Mode Network based on these metrics:
- Latest block: %d
- Gas price: %s Gwei
- Transactions in last block: %d
- Block size: %s

Provide comprehensive insights about:
1. Network performance and health
2. Transaction activity and trends
3. Gas price analysis
4. Recommendations for network usage`,
		snap.BlockHeight(),
		snap.GasPriceGwei().String(),
		snap.TxCount(),
		snap.BlockSize(),
	)
}

// QuestionPrompt wraps a user's question with network context. snap may be
// nil, in which case the context values read N/A.
func QuestionPrompt(snap *chain.NetworkSnapshot, question string) string {
	height, gas, txs := notAvailable, notAvailable, notAvailable
	if snap != nil {
		height = printer.Sprintf("%d", snap.BlockHeight())
		gas = snap.GasPriceGwei().String()
		txs = printer.Sprintf("%d", snap.TxCount())
	}

	return printer.Sprintf(`Context:
- Mode Network Block Height: %s
- Current Gas Price: %s Gwei
- Recent Transactions: %s

User Question: %s

Provide a helpful and informative response about Mode Network.
Focus on accuracy and practical insights.`,
		height, gas, txs, question,
	)
}
