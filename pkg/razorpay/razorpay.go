package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jayant413/contrashutter-backend/pkg/client"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrGateway          = errors.New("payment gateway error")
)

type OrderRequest struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	Receipt        string            `json:"receipt,omitempty"`
	PaymentCapture int               `json:"payment_capture"`
	Notes          map[string]string `json:"notes,omitempty"`
}

// Order mirrors the gateway's order object. Unknown fields are dropped.
type Order struct {
	ID         string            `json:"id"`
	Entity     string            `json:"entity"`
	Amount     int64             `json:"amount"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Receipt    string            `json:"receipt"`
	Status     string            `json:"status"`
	Attempts   int               `json:"attempts"`
	Notes      map[string]string `json:"notes"`
	CreatedAt  int64             `json:"created_at"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

type Client struct {
	http   *client.HttpClient
	secret string
}

func NewClient(baseURL, keyID, keySecret string, timeout time.Duration) *Client {
	hc := client.NewHttpClient(baseURL, client.WithBasicAuth(keyID, keySecret), client.WithTimeout(timeout))
	return &Client{http: hc, secret: keySecret}
}

// CreateOrder opens an auto-captured order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	req.PaymentCapture = 1
	resp, err := c.http.Do(ctx, http.MethodPost, "/orders", req, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var gwErr gatewayError
		_ = resp.DecodeJSON(&gwErr)
		return nil, fmt.Errorf("%w: status %d: %s %s", ErrGateway, resp.StatusCode, gwErr.Error.Code, gwErr.Error.Description)
	}

	var order Order
	if err := resp.DecodeJSON(&order); err != nil {
		return nil, fmt.Errorf("%w: failed to decode order: %v", ErrGateway, err)
	}
	return &order, nil
}

func (c *Client) VerifyPayment(orderID, paymentID, signature string) error {
	return VerifySignature(c.secret, orderID, paymentID, signature)
}

// Sign returns hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) error {
	expected := Sign(secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}
