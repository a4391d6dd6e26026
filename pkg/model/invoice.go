package model

import "time"

// Invoice payment types record which payment event produced the invoice.
const (
	InvoiceInitial           = 1
	InvoiceSecondInstallment = 2
	InvoiceFinalSettlement   = 3
)

type Invoice struct {
	ID                string    `json:"_id,omitempty" bson:"_id,omitempty"`
	InvoiceNo         string    `json:"invoice_no" bson:"invoice_no"`
	BookingID         string    `json:"bookingId" bson:"bookingId"`
	PaymentType       int       `json:"paymentType" bson:"paymentType"`
	PaymentMethod     string    `json:"paymentMethod" bson:"paymentMethod"`
	PayablePrice      float64   `json:"payablePrice" bson:"payablePrice"`
	PaidAmount        float64   `json:"paidAmount" bson:"paidAmount"`
	DueAmount         float64   `json:"dueAmount" bson:"dueAmount"`
	PaymentDate       time.Time `json:"paymentDate" bson:"paymentDate"`
	PaymentStatus     string    `json:"paymentStatus" bson:"paymentStatus"`
	RazorpayOrderID   string    `json:"razorpayOrderId,omitempty" bson:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string    `json:"razorpayPaymentId,omitempty" bson:"razorpayPaymentId,omitempty"`
	CreatedAt         time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updatedAt"`
}
