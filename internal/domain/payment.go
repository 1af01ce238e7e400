package domain

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how a paid booking was settled.
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "CREDIT"
	PaymentDebit  PaymentMethod = "DEBIT"
)

// Payment records money taken for a paid booking. It is immutable once written;
// cancelling the booking leaves it in place.
// swagger:model Payment
type Payment struct {
	ID         string          `json:"id"`
	BookingID  string          `json:"booking_id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	CardMasked string          `json:"card_masked"`
	PaidAt     time.Time       `json:"paid_at"`
}

// PaymentDetails is what the customer submits. The card number is masked before storage.
type PaymentDetails struct {
	Method     PaymentMethod
	CardNumber string
}

func (p PaymentDetails) validate() []string {
	var errs []string
	if p.Method != PaymentCredit && p.Method != PaymentDebit {
		errs = append(errs, "payment method must be CREDIT or DEBIT")
	}
	digits := onlyDigits(p.CardNumber)
	if len(digits) < 12 || len(digits) > 19 {
		errs = append(errs, "card number must have 12 to 19 digits")
	}
	return errs
}

// MaskCard renders a card number as "<Brand> •••• <last4>".
func MaskCard(number string) string {
	digits := onlyDigits(number)
	last4 := digits
	if len(digits) > 4 {
		last4 = digits[len(digits)-4:]
	}
	return cardBrand(digits) + " •••• " + last4
}

func cardBrand(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "Amex"
	case len(digits) > 0 && digits[0] == '5':
		return "Mastercard"
	default:
		return "Card"
	}
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PaymentRepository defines the interface for payment storage. There is no update.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByBookingID(ctx context.Context, bookingID string) (*Payment, error)
}
