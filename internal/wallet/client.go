package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/j0lvera/modebot/internal/errs"
)

const (
	providerName = "wallet"

	defaultTimeout    = 15 * time.Second
	defaultMaxRetries = 3
)

// CreateWalletsRequest represents the request to create wallets
type CreateWalletsRequest struct {
	IdempotencyKey string   `json:"idempotencyKey"`
	Blockchains    []string `json:"blockchains"`
	AccountType    string   `json:"accountType,omitempty"`
	Count          int      `json:"count"`
}

// walletDTO is a wallet as returned by the API
type walletDTO struct {
	ID         string `json:"id"`
	Address    string `json:"address"`
	Blockchain string `json:"blockchain"`
	State      string `json:"state"`
}

// CreateWalletsResponse represents the response from creating wallets
type CreateWalletsResponse struct {
	Data struct {
		Wallets []walletDTO `json:"wallets"`
	} `json:"data"`
}

// TokenBalance represents a token balance
type TokenBalance struct {
	Amount string `json:"amount"`
	Token  struct {
		Symbol   string `json:"symbol"`
		Decimals int    `json:"decimals"`
	} `json:"token"`
}

// WalletBalanceResponse represents the response from getting wallet balances
type WalletBalanceResponse struct {
	Data struct {
		TokenBalances []TokenBalance `json:"tokenBalances"`
	} `json:"data"`
}

// TransferRequest represents a token transfer request
type TransferRequest struct {
	IdempotencyKey     string   `json:"idempotencyKey"`
	WalletAddress      string   `json:"walletAddress"`
	DestinationAddress string   `json:"destinationAddress"`
	Amounts            []string `json:"amounts"`
	TokenSymbol        string   `json:"tokenSymbol"`
}

// TransferResponse represents the response from submitting a transfer
type TransferResponse struct {
	Data struct {
		ID    string `json:"id"`
		State string `json:"state"`
	} `json:"data"`
}

// apiError is the error body returned on non-2xx responses
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RequestError is a 4xx reply: the API is up but refused the request, for
// example over a bad address or an unknown token. It is not retried and is
// not a provider outage.
type RequestError struct {
	Status  int
	Code    int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("wallet request rejected: status %d: %s", e.Status, e.Message)
}

// Client implements Provider against a Circle-style wallet REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries uint64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithMaxRetries sets how many times a failed request is retried.
func WithMaxRetries(n uint64) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateWallet creates one wallet on blockchain.
func (c *Client) CreateWallet(ctx context.Context, blockchain, accountType string) (Wallet, error) {
	req := CreateWalletsRequest{
		IdempotencyKey: uuid.NewString(),
		Blockchains:    []string{blockchain},
		AccountType:    accountType,
		Count:          1,
	}

	var resp CreateWalletsResponse
	if err := c.do(ctx, http.MethodPost, "wallets", req, &resp); err != nil {
		return Wallet{}, fmt.Errorf("failed to create wallet: %w", err)
	}

	if len(resp.Data.Wallets) == 0 {
		return Wallet{}, errs.Unavailable(providerName, fmt.Errorf("no wallet in create response"))
	}

	w := resp.Data.Wallets[0]
	return Wallet{
		ID:         w.ID,
		Address:    w.Address,
		Blockchain: w.Blockchain,
	}, nil
}

// Balances lists token balances held at address.
func (c *Client) Balances(ctx context.Context, address string) ([]Balance, error) {
	var resp WalletBalanceResponse
	path := fmt.Sprintf("wallets/%s/balances", url.PathEscape(address))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get wallet balances: %w", err)
	}

	balances := make([]Balance, 0, len(resp.Data.TokenBalances))
	for _, tb := range resp.Data.TokenBalances {
		balances = append(balances, Balance{
			Symbol: tb.Token.Symbol,
			Amount: tb.Amount,
		})
	}
	return balances, nil
}

// Transfer submits a transfer of amount token from one address to another.
func (c *Client) Transfer(ctx context.Context, from, to, amount, token string) (Transfer, error) {
	req := TransferRequest{
		IdempotencyKey:     uuid.NewString(),
		WalletAddress:      from,
		DestinationAddress: to,
		Amounts:            []string{amount},
		TokenSymbol:        token,
	}

	var resp TransferResponse
	if err := c.do(ctx, http.MethodPost, "transactions/transfer", req, &resp); err != nil {
		return Transfer{}, fmt.Errorf("failed to submit transfer: %w", err)
	}

	return Transfer{
		ID:    resp.Data.ID,
		State: resp.Data.State,
	}, nil
}

// do sends one API request, retrying network errors and 5xx responses. The
// body is marshalled once so retries reuse the same idempotency key.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	endpoint := c.baseURL + "/" + path

	op := func() error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusBadRequest {
			reqErr := &RequestError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			var apiErr apiError
			if jsonErr := json.Unmarshal(data, &apiErr); jsonErr == nil && apiErr.Message != "" {
				reqErr.Code = apiErr.Code
				reqErr.Message = apiErr.Message
			}
			return backoff.Permanent(reqErr)
		}

		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	b := backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx)

	if err := backoff.Retry(op, b); err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			return reqErr
		}
		return errs.Unavailable(providerName, err)
	}
	return nil
}
