package payment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingserrors "github.com/jayant413/contrashutter-backend/internal/bookings/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

func TestNewPlan(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		total       float64
		installment int
		wantPaid    float64
		wantDue     float64
		wantStatus  string
		wantType    string
	}{
		{"full payment", 10000, 1, 10000, 0, model.PaymentCompleted, model.PaymentTypeFull},
		{"three installments take 30 percent", 10000, 3, 3000, 7000, model.PaymentPending, model.PaymentTypeInstallments},
		{"three installments round up", 9999, 3, 3000, 6999, model.PaymentPending, model.PaymentTypeInstallments},
		{"two installments split evenly", 10001, 2, 5001, 5000, model.PaymentPending, model.PaymentTypeInstallments},
		{"four installments round up", 1000, 4, 250, 750, model.PaymentPending, model.PaymentTypeInstallments},
		{"seven installments", 100, 7, 15, 85, model.PaymentPending, model.PaymentTypeInstallments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlan(tt.total, tt.installment, "", now)
			require.NoError(t, err)

			assert.Equal(t, tt.installment, plan.Installment)
			assert.Equal(t, tt.total, plan.PayablePrice)
			assert.Equal(t, tt.wantPaid, plan.PaidAmount)
			assert.Equal(t, tt.wantDue, plan.DueAmount)
			assert.Equal(t, tt.wantStatus, plan.PaymentStatus)
			assert.Equal(t, tt.wantType, plan.PaymentType)
			assert.Equal(t, model.DefaultPaymentMethod, plan.PaymentMethod)
			assert.Equal(t, plan.PayablePrice, plan.PaidAmount+plan.DueAmount)
		})
	}
}

func TestNewPlan_Rejects(t *testing.T) {
	_, err := NewPlan(1000, 0, "", time.Now())
	assert.True(t, errors.Is(err, bookingserrors.ErrInvalidInstallment))

	_, err = NewPlan(0, 1, "", time.Now())
	assert.True(t, errors.Is(err, bookingserrors.ErrInvalidPrice))
}

func TestNewPlan_KeepsMethod(t *testing.T) {
	plan, err := NewPlan(500, 1, "UPI", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "UPI", plan.PaymentMethod)
}

func TestSecondInstallment(t *testing.T) {
	s := SecondInstallment(10000)
	assert.Equal(t, 10000.0, s.Payable)
	assert.Equal(t, 4000.0, s.Paid)
	assert.Equal(t, 3000.0, s.Due)
}

func TestFinalSettlement(t *testing.T) {
	_, ok := FinalSettlement(&model.PaymentDetails{Installment: 1, PayablePrice: 500})
	assert.False(t, ok)

	_, ok = FinalSettlement(nil)
	assert.False(t, ok)

	_, ok = FinalSettlement(&model.PaymentDetails{Installment: 3, PayablePrice: 500, PaidAmount: 500})
	assert.False(t, ok, "nothing left to settle")

	details := &model.PaymentDetails{Installment: 3, PayablePrice: 10000, PaidAmount: 7000, DueAmount: 3000, PaymentStatus: model.PaymentPending}
	s, ok := FinalSettlement(details)
	require.True(t, ok)
	assert.Equal(t, 3000.0, s.Paid)
	assert.Equal(t, 0.0, s.Due)

	Settle(details)
	assert.Equal(t, 10000.0, details.PaidAmount)
	assert.Equal(t, 0.0, details.DueAmount)
	assert.Equal(t, model.PaymentCompleted, details.PaymentStatus)
}
