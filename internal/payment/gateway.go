package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"maison-be/internal/logger"

	"go.uber.org/zap"
)

type Gateway interface {
	CreateInvoice(
		ctx context.Context,
		invoiceNumber string,
		buyer BuyerInfo,
		amount float64,
		bookingRef *string,
	) (*InvoiceResponse, error)
	GetPaymentStatus(ctx context.Context, externalID string) (*PaymentStatus, error)
	VerifySignature(r *http.Request) error
}

type httpGateway struct {
	apiKey        string
	baseURL       string
	callbackToken string
	successURL    string
	failureURL    string
	httpClient    *http.Client
}

func NewGateway(apiKey string) Gateway {
	if apiKey == "" {
		logger.L().Warn("payment API key is empty")
	}

	baseURL := os.Getenv("PAYMENT_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.payment-provider.test"
	}

	return &httpGateway{
		apiKey:        apiKey,
		baseURL:       baseURL,
		callbackToken: os.Getenv("PAYMENT_CALLBACK_TOKEN"),
		successURL:    os.Getenv("SUCCESS_URL"),
		failureURL:    os.Getenv("FAILURE_URL"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *httpGateway) CreateInvoice(
	ctx context.Context,
	invoiceNumber string,
	buyer BuyerInfo,
	amount float64,
	bookingRef *string,
) (*InvoiceResponse, error) {

	log := logger.L().With(
		zap.String("invoice_number", invoiceNumber),
		zap.String("buyer", buyer.Name),
		zap.Float64("amount", amount),
	)

	body := map[string]interface{}{
		"external_id": invoiceNumber,
		"amount":      amount,
		"customer": map[string]interface{}{
			"name":  buyer.Name,
			"email": buyer.Email,
			"phone": buyer.Phone,
		},
		"success_redirect_url": g.successURL,
		"failure_redirect_url": g.failureURL,
	}
	if bookingRef != nil {
		body["metadata"] = map[string]interface{}{
			"booking_ref": *bookingRef,
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error("failed to marshal invoice request", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v2/invoices", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, err
	}
	req.SetBasicAuth(g.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("invoice request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error("invoice rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return nil, fmt.Errorf("payment provider returned %d", resp.StatusCode)
	}

	var out InvoiceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error("failed to decode invoice response", zap.Error(err))
		return nil, err
	}

	log.Info("invoice created", zap.String("external_id", out.ExternalID))

	return &out, nil
}

func (g *httpGateway) GetPaymentStatus(ctx context.Context, externalID string) (*PaymentStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/v2/invoices/"+externalID, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(g.apiKey, "")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment provider returned %d", resp.StatusCode)
	}

	var out struct {
		Status string     `json:"status"`
		PaidAt *time.Time `json:"paid_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	return &PaymentStatus{Status: out.Status, PaidAt: out.PaidAt}, nil
}

func (g *httpGateway) VerifySignature(r *http.Request) error {
	token := r.Header.Get("x-callback-token")
	if g.callbackToken == "" || token != g.callbackToken {
		return errors.New("invalid callback token")
	}
	return nil
}
