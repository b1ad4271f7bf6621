package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vastra-be/internal/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.razorpay.com"

type restClient struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
}

// New builds a client for one credentials set. No process-global instance
// exists; the orchestrator constructs one per resolved payment method.
func New(creds Credentials) Client {
	if creds.KeyID == "" || creds.KeySecret == "" {
		logger.L().Warn("razorpay credentials are incomplete")
	}

	return &restClient{
		creds:   creds,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *restClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.Int64("amount", amount),
		zap.String("currency", currency),
		zap.String("receipt", receipt),
	)

	// Never send a zero or negative amount to the remote service.
	if amount <= 0 {
		log.Warn("rejected order creation with non-positive amount")
		return nil, ErrInvalidAmount
	}

	body := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error("Failed to marshal order request", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.SetBasicAuth(c.creds.KeyID, c.creds.KeySecret)
	req.Header.Add("Content-Type", "application/json")

	log.Info("Creating razorpay order")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Razorpay request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.apiError(log, resp.StatusCode, bodyBytes)
	}

	var order Order
	if err := json.Unmarshal(bodyBytes, &order); err != nil {
		log.Error("Failed decoding razorpay order", zap.Error(err))
		return nil, err
	}

	log.Info("Razorpay order created",
		zap.String("gateway_order_id", order.ID),
		zap.String("status", order.Status),
	)

	return &order, nil
}

func (c *restClient) FetchPayments(ctx context.Context, gatewayOrderID string) ([]Payment, error) {
	log := logger.FromCtx(ctx).With(zap.String("gateway_order_id", gatewayOrderID))

	url := fmt.Sprintf("%s/v1/orders/%s/payments", c.baseURL, gatewayOrderID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		log.Error("Failed building request", zap.Error(err))
		return nil, err
	}

	req.SetBasicAuth(c.creds.KeyID, c.creds.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Razorpay request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError(log, resp.StatusCode, bodyBytes)
	}

	var collection struct {
		Entity string    `json:"entity"`
		Count  int       `json:"count"`
		Items  []Payment `json:"items"`
	}
	if err := json.Unmarshal(bodyBytes, &collection); err != nil {
		log.Error("Failed decoding payments collection", zap.Error(err))
		return nil, err
	}

	return collection.Items, nil
}

func (c *restClient) apiError(log *zap.Logger, statusCode int, body []byte) error {
	log.Error("Razorpay returned non-success status",
		zap.Int("status", statusCode),
		zap.ByteString("response", body),
	)

	var wrapper struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	// Best effort: a malformed error body still yields a usable APIError.
	_ = json.Unmarshal(body, &wrapper)

	return &APIError{
		StatusCode:  statusCode,
		Code:        wrapper.Error.Code,
		Description: wrapper.Error.Description,
	}
}
