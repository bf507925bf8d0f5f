package wallet

import "context"

// Wallet is a custodial wallet created by the provider.
type Wallet struct {
	ID         string
	Address    string
	Blockchain string
}

// Balance is one token amount held by a wallet. Amount is kept as the
// provider's decimal string.
type Balance struct {
	Symbol string
	Amount string
}

// Transfer is a submitted token transfer.
type Transfer struct {
	ID    string
	State string
}

// Provider is a wallet-as-a-service API.
type Provider interface {
	CreateWallet(ctx context.Context, blockchain, accountType string) (Wallet, error)
	Balances(ctx context.Context, address string) ([]Balance, error)
	Transfer(ctx context.Context, from, to, amount, token string) (Transfer, error)
}
