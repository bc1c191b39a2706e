package models

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Payment methods.
const (
	MethodStripe       = "stripe"
	MethodCash         = "cash"
	MethodBankTransfer = "bankTransfer"
)

// Payment is the money side of an appointment. TotalPrice is what the client owes
// after any promo discount.
type Payment struct {
	Status          PaymentStatus    `bson:"status" json:"status"`
	Method          string           `bson:"method,omitempty" json:"method,omitempty"`
	Currency        string           `bson:"currency" json:"currency"`
	Subtotal        float64          `bson:"subtotal" json:"subtotal"`
	TotalPrice      float64          `bson:"totalPrice" json:"totalPrice"`
	Discount        *AppliedDiscount `bson:"discount,omitempty" json:"discount,omitempty"`
	PaymentIntentID string           `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	Reference       string           `bson:"reference,omitempty" json:"reference,omitempty"`
	ProcessedAt     *time.Time       `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

// AppliedDiscount is the promo applied at booking. Redeemed becomes true once the
// code's usage count has been incremented for this appointment.
type AppliedDiscount struct {
	Code     string       `bson:"code" json:"code"`
	Type     DiscountType `bson:"type" json:"type"`
	Value    float64      `bson:"value" json:"value"`
	Amount   float64      `bson:"amount" json:"amount"`
	Redeemed bool         `bson:"redeemed" json:"redeemed"`
}
