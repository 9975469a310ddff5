package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"wallet-service/src/pkg/log"
)

const (
	pathCollectionPush = "/api/v1/payment/mpesa-stk-push/"
	pathCheckout       = "/api/v1/checkout/"
	pathPayout         = "/api/v1/send-money/initiate/"
	pathStatus         = "/api/v1/payment/status/"
)

// Client is the outbound adapter to the external payment processor. It is
// stateless: one HTTP call per operation, bounded timeout, no persistence
// and no internal retry loop.
type Client interface {
	InitiateCollectionPush(ctx context.Context, req CollectionPushRequest) (*CollectionResponse, error)
	InitiateCollectionCheckout(ctx context.Context, req CollectionCheckoutRequest) (*CheckoutResponse, error)
	InitiatePayoutMobile(ctx context.Context, req MobilePayoutRequest) (*PayoutResponse, error)
	InitiatePayoutBusiness(ctx context.Context, req BusinessPayoutRequest) (*PayoutResponse, error)
	InitiatePayoutBank(ctx context.Context, req BankPayoutRequest) (*PayoutResponse, error)
	QueryStatus(ctx context.Context, trackingID string) (*StatusResponse, error)
}

type client struct {
	baseURL    string
	secretKey  string
	currency   string
	httpClient *http.Client
	log        log.Log
}

func NewClient(baseURL, secretKey, currency string, timeout time.Duration, logger log.Log) Client {
	return &client{
		baseURL:   baseURL,
		secretKey: secretKey,
		currency:  currency,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *client) InitiateCollectionPush(ctx context.Context, req CollectionPushRequest) (*CollectionResponse, error) {
	var resp CollectionResponse
	if err := c.do(ctx, http.MethodPost, pathCollectionPush, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) InitiateCollectionCheckout(ctx context.Context, req CollectionCheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.do(ctx, http.MethodPost, pathCheckout, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) InitiatePayoutMobile(ctx context.Context, req MobilePayoutRequest) (*PayoutResponse, error) {
	body := payoutEnvelope{
		Currency:         c.currency,
		Provider:         "mobile-money",
		RequiresApproval: approvalFlag(req.RequiresApproval),
		Transactions: []PayoutTransaction{{
			Name:      req.Name,
			Account:   req.PhoneNumber,
			Amount:    req.Amount,
			Narrative: req.Narrative,
		}},
	}
	var resp PayoutResponse
	if err := c.do(ctx, http.MethodPost, pathPayout, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) InitiatePayoutBusiness(ctx context.Context, req BusinessPayoutRequest) (*PayoutResponse, error) {
	body := payoutEnvelope{
		Currency:         c.currency,
		Provider:         "business-b2b",
		RequiresApproval: approvalFlag(req.RequiresApproval),
		Transactions:     req.Transactions,
	}
	var resp PayoutResponse
	if err := c.do(ctx, http.MethodPost, pathPayout, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) InitiatePayoutBank(ctx context.Context, req BankPayoutRequest) (*PayoutResponse, error) {
	body := payoutEnvelope{
		Currency:         c.currency,
		Provider:         "bank-transfer",
		RequiresApproval: approvalFlag(req.RequiresApproval),
		Transactions:     req.Transactions,
	}
	var resp PayoutResponse
	if err := c.do(ctx, http.MethodPost, pathPayout, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) QueryStatus(ctx context.Context, trackingID string) (*StatusResponse, error) {
	var resp StatusResponse
	path := pathStatus + "?tracking_id=" + url.QueryEscape(trackingID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type payoutEnvelope struct {
	Currency         string              `json:"currency"`
	Provider         string              `json:"provider"`
	RequiresApproval string              `json:"requires_approval"`
	Transactions     []PayoutTransaction `json:"transactions"`
}

func approvalFlag(required bool) string {
	if required {
		return "YES"
	}
	return "NO"
}

type gatewayErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func (c *client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		// network failure or timeout, transient by definition
		return &GatewayError{StatusCode: 0, Code: "NETWORK", Message: err.Error()}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &GatewayError{StatusCode: res.StatusCode, Code: "READ", Message: err.Error()}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var errBody gatewayErrorBody
		_ = json.Unmarshal(raw, &errBody)
		msg := errBody.Message
		if msg == "" {
			msg = errBody.Detail
		}
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", res.StatusCode)
		}
		c.log.Error("payment-gateway", msg, method+" "+path, fmt.Sprintf("status=%d", res.StatusCode))
		return &GatewayError{StatusCode: res.StatusCode, Code: errBody.Code, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &GatewayError{StatusCode: res.StatusCode, Code: "DECODE", Message: err.Error()}
		}
	}
	return nil
}
