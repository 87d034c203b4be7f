package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is a read-only JSON-RPC client for a Sui fullnode. Writes never go
// through this service; players relay signed claims to the contract
// themselves.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, requestTimeout time.Duration) *Client {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("ledger: marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger: %s returned status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("ledger: decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("ledger: %s rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("ledger: unmarshal %s result: %w", method, err)
	}
	return nil
}

// GetObject fetches an object with its Move content.
func (c *Client) GetObject(ctx context.Context, objectID string) (*ObjectData, error) {
	var resp ObjectResponse
	params := []any{objectID, map[string]any{"showContent": true}}
	if err := c.call(ctx, "sui_getObject", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("ledger: object %s: %s", objectID, resp.Error.Code)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("ledger: object %s: empty response", objectID)
	}
	return resp.Data, nil
}

// GetDynamicFields returns one page of a table's entries. Callers follow
// NextCursor until HasNextPage is false.
func (c *Client) GetDynamicFields(ctx context.Context, parentID string, cursor *string, limit int) (*DynamicFieldPage, error) {
	var page DynamicFieldPage
	params := []any{parentID, cursor, limit}
	if err := c.call(ctx, "suix_getDynamicFields", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetDynamicFieldObject resolves the stored value for one table key.
func (c *Client) GetDynamicFieldObject(ctx context.Context, parentID string, name DynamicFieldName) (*ObjectData, error) {
	var resp ObjectResponse
	params := []any{parentID, name}
	if err := c.call(ctx, "suix_getDynamicFieldObject", params, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("ledger: dynamic field on %s: %s", parentID, resp.Error.Code)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("ledger: dynamic field on %s: empty response", parentID)
	}
	return resp.Data, nil
}
