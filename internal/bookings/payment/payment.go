// Package payment computes the money side of a booking: how much of the
// package price is collected up front and what each later payment settles.
package payment

import (
	"time"

	"github.com/shopspring/decimal"

	bookingserrors "github.com/jayant413/contrashutter-backend/internal/bookings/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const (
	singleInstallment = 1
	threeInstallments = 3
)

var (
	upfrontShare    = decimal.RequireFromString("0.3")
	secondPaidShare = decimal.RequireFromString("0.4")
	secondDueShare  = decimal.RequireFromString("0.3")
)

// NewPlan splits total into the first payment and the remaining due amount.
func NewPlan(total float64, installment int, method string, now time.Time) (*model.PaymentDetails, error) {
	if installment < singleInstallment {
		return nil, bookingserrors.ErrInvalidInstallment
	}
	if total <= 0 {
		return nil, bookingserrors.ErrInvalidPrice
	}
	if method == "" {
		method = model.DefaultPaymentMethod
	}

	price := decimal.NewFromFloat(total)
	first := FirstPayment(price, installment)
	due := price.Sub(first)

	plan := &model.PaymentDetails{
		Installment:   installment,
		PayablePrice:  price.InexactFloat64(),
		PaidAmount:    first.InexactFloat64(),
		DueAmount:     due.InexactFloat64(),
		PaymentMethod: method,
		PaymentDate:   &now,
	}
	if due.IsPositive() {
		plan.PaymentType = model.PaymentTypeInstallments
		plan.PaymentStatus = model.PaymentPending
	} else {
		plan.PaymentType = model.PaymentTypeFull
		plan.PaymentStatus = model.PaymentCompleted
	}
	return plan, nil
}

// FirstPayment is the amount collected when the booking is placed.
func FirstPayment(price decimal.Decimal, installment int) decimal.Decimal {
	switch installment {
	case singleInstallment:
		return price
	case threeInstallments:
		return price.Mul(upfrontShare).Ceil()
	default:
		return price.Div(decimal.NewFromInt(int64(installment))).Ceil()
	}
}

// Settlement is what a follow-up payment records on its invoice.
type Settlement struct {
	Payable float64
	Paid    float64
	Due     float64
}

// SecondInstallment records 40% paid and 30% outstanding of payable,
// independent of what was collected up front.
func SecondInstallment(payable float64) Settlement {
	p := decimal.NewFromFloat(payable)
	return Settlement{
		Payable: payable,
		Paid:    p.Mul(secondPaidShare).InexactFloat64(),
		Due:     p.Mul(secondDueShare).InexactFloat64(),
	}
}

// FinalSettlement clears whatever is still due on the booking. The second
// return value is false when there is nothing to settle: single-installment
// bookings and bookings already paid in full.
func FinalSettlement(details *model.PaymentDetails) (Settlement, bool) {
	if details == nil || details.Installment == singleInstallment || details.DueAmount <= 0 {
		return Settlement{}, false
	}
	return Settlement{
		Payable: details.PayablePrice,
		Paid:    details.DueAmount,
		Due:     0,
	}, true
}

// Settle marks details as fully paid.
func Settle(details *model.PaymentDetails) {
	details.PaidAmount = details.PayablePrice
	details.DueAmount = 0
	details.PaymentStatus = model.PaymentCompleted
}
