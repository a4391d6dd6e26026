package service

import (
	"context"
	"errors"

	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/razorpay"
)

var ErrOrderFailed = errors.New("error creating order")

type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	VerifyPayment(orderID, paymentID, signature string) error
}

type VerifyRequest struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

type PaymentService interface {
	CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error)
	Verify(ctx context.Context, req *VerifyRequest) error
}

type paymentService struct {
	gateway Gateway
	cfg     *config.Config
}

func NewPaymentService(gateway Gateway, cfg *config.Config) PaymentService {
	return &paymentService{gateway: gateway, cfg: cfg}
}

// CreateOrder forwards the order to the gateway. Amounts are in paise.
func (s *paymentService) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (*razorpay.Order, error) {
	log := s.cfg.Log.WithContext(ctx)

	if req.Amount <= 0 {
		return nil, apperrors.InvalidInput("Amount must be greater than zero")
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		log.Error("Error creating order", "receipt", req.Receipt, "amount", req.Amount, "error", err)
		return nil, ErrOrderFailed
	}
	log.Info("Payment order created", "order_id", order.ID, "amount", order.Amount)
	return order, nil
}

func (s *paymentService) Verify(ctx context.Context, req *VerifyRequest) error {
	if err := s.gateway.VerifyPayment(req.OrderID, req.PaymentID, req.Signature); err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Payment signature rejected", "order_id", req.OrderID, "payment_id", req.PaymentID)
		return err
	}
	s.cfg.Log.WithContext(ctx).Info("Payment verified", "order_id", req.OrderID, "payment_id", req.PaymentID)
	return nil
}
