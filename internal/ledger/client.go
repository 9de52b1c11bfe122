package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"profitScope/internal/model"
)

// Closest selects which side of a timestamp a block lookup resolves to.
type Closest string

const (
	ClosestBefore Closest = "before"
	ClosestAfter  Closest = "after"
)

const noTransactionsFound = "No transactions found"

// Client queries an Etherscan-compatible ledger API. It holds no state
// beyond credentials and the shared HTTP client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a ledger client for the given API endpoint.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type proxyEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)
	fullURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("ledger api http error",
			zap.Int("status", resp.StatusCode),
			zap.String("module", params.Get("module")),
			zap.String("action", params.Get("action")),
			zap.ByteString("body", body),
		)
		return nil, fmt.Errorf("ledger api: unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// query runs a module/action request and unwraps the status envelope.
// A status-0 "No transactions found" reply is returned as an empty result.
func (c *Client) query(ctx context.Context, params url.Values) (json.RawMessage, error) {
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode ledger response: %w", err)
	}

	if env.Status != "1" {
		if strings.Contains(env.Message, noTransactionsFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledger api: %s", apiError(env))
	}

	return env.Result, nil
}

func apiError(env envelope) string {
	var detail string
	if json.Unmarshal(env.Result, &detail) == nil && detail != "" {
		return fmt.Sprintf("%s (%s)", env.Message, detail)
	}
	return env.Message
}

// LatestBlock returns the current chain head number.
func (c *Client) LatestBlock(ctx context.Context) (uint64, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_blockNumber")

	body, err := c.get(ctx, params)
	if err != nil {
		return 0, err
	}

	var env proxyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, fmt.Errorf("decode block number: %w", err)
	}
	if env.Error != nil {
		return 0, fmt.Errorf("ledger api: %s", env.Error.Message)
	}

	var hexNumber string
	if err := json.Unmarshal(env.Result, &hexNumber); err != nil {
		return 0, fmt.Errorf("decode block number: %w", err)
	}
	return strconv.ParseUint(strings.TrimPrefix(hexNumber, "0x"), 16, 64)
}

// BlockByTime returns the block number closest to the timestamp on the given
// side. The API errors when no block exists in that direction.
func (c *Client) BlockByTime(ctx context.Context, timestamp uint64, closest Closest) (uint64, error) {
	params := url.Values{}
	params.Set("module", "block")
	params.Set("action", "getblocknobytime")
	params.Set("timestamp", strconv.FormatUint(timestamp, 10))
	params.Set("closest", string(closest))

	result, err := c.query(ctx, params)
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, fmt.Errorf("no block %s timestamp %d", closest, timestamp)
	}

	var blockNumber string
	if err := json.Unmarshal(result, &blockNumber); err != nil {
		return 0, fmt.Errorf("decode block by time: %w", err)
	}
	return strconv.ParseUint(blockNumber, 10, 64)
}

// TransactionsByAddress lists primary transactions for an address in the
// inclusive block range, ascending. The upstream caps each reply at a fixed
// row count; callers window around the cap.
func (c *Client) TransactionsByAddress(ctx context.Context, address string, startBlock, endBlock uint64) ([]model.RawTransaction, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", strconv.FormatUint(startBlock, 10))
	params.Set("endblock", strconv.FormatUint(endBlock, 10))
	params.Set("sort", "asc")

	result, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	var txs []model.RawTransaction
	if err := json.Unmarshal(result, &txs); err != nil {
		return nil, fmt.Errorf("decode transaction list: %w", err)
	}
	return txs, nil
}

// InternalTransfersByHash lists internal value transfers belonging to one
// parent transaction, empty if none.
func (c *Client) InternalTransfersByHash(ctx context.Context, hash string) ([]model.InternalTransfer, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlistinternal")
	params.Set("txhash", hash)

	return c.internalTransfers(ctx, params)
}

// InternalTransfersByAddress lists internal value transfers touching an
// address in the inclusive block range, ascending.
func (c *Client) InternalTransfersByAddress(ctx context.Context, address string, startBlock, endBlock uint64) ([]model.InternalTransfer, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "txlistinternal")
	params.Set("address", address)
	params.Set("startblock", strconv.FormatUint(startBlock, 10))
	params.Set("endblock", strconv.FormatUint(endBlock, 10))
	params.Set("sort", "asc")

	return c.internalTransfers(ctx, params)
}

func (c *Client) internalTransfers(ctx context.Context, params url.Values) ([]model.InternalTransfer, error) {
	result, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	var transfers []model.InternalTransfer
	if err := json.Unmarshal(result, &transfers); err != nil {
		return nil, fmt.Errorf("decode internal transfers: %w", err)
	}
	return transfers, nil
}

// TransactionTo returns the destination address of a transaction, used for
// contract discovery. Contract creations have no destination and return "".
func (c *Client) TransactionTo(ctx context.Context, hash string) (string, error) {
	params := url.Values{}
	params.Set("module", "proxy")
	params.Set("action", "eth_getTransactionByHash")
	params.Set("txhash", hash)

	body, err := c.get(ctx, params)
	if err != nil {
		return "", err
	}

	var env proxyEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}
	if env.Error != nil {
		return "", fmt.Errorf("ledger api: %s", env.Error.Message)
	}

	var tx struct {
		To string `json:"to"`
	}
	if err := json.Unmarshal(env.Result, &tx); err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}
	return strings.ToLower(tx.To), nil
}

// AssetPrice returns the native asset USD price. Best-effort: callers
// substitute zero on failure.
func (c *Client) AssetPrice(ctx context.Context) (float64, error) {
	params := url.Values{}
	params.Set("module", "stats")
	params.Set("action", "ethprice")

	result, err := c.query(ctx, params)
	if err != nil {
		return 0, err
	}
	if result == nil {
		return 0, fmt.Errorf("empty price result")
	}

	var price struct {
		EthUSD string `json:"ethusd"`
	}
	if err := json.Unmarshal(result, &price); err != nil {
		return 0, fmt.Errorf("decode price: %w", err)
	}

	value, err := strconv.ParseFloat(price.EthUSD, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price: %w", err)
	}
	return value, nil
}
