// Package payment charges orders through a payment gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tastehub/api/internal/enum"
)

var ErrUnsupportedMethod = errors.New("unsupported payment method")

// Result is the outcome of a charge attempt.
type Result struct {
	Status        string
	TransactionID string
}

// Gateway charges an amount with the given payment method.
// A declined charge is a Result with status failed, not an error.
type Gateway interface {
	Charge(ctx context.Context, method string, amount decimal.Decimal) (Result, error)
}

// Simulated is a Gateway that never leaves the process. Card and PayPal
// charges complete immediately; cash on delivery stays pending.
type Simulated struct {
	failureRate float64
	now         func() time.Time
	roll        func() float64
}

// NewSimulated returns a simulated gateway that declines the given fraction
// of card and PayPal charges.
func NewSimulated(failureRate float64) *Simulated {
	return &Simulated{
		failureRate: failureRate,
		now:         time.Now,
		roll:        rand.Float64,
	}
}

func (s *Simulated) Charge(ctx context.Context, method string, amount decimal.Decimal) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var prefix string
	switch method {
	case enum.PaymentMethodCashOnDelivery:
		return Result{Status: enum.PaymentStatusPending}, nil
	case enum.PaymentMethodCreditCard:
		prefix = "stripe"
	case enum.PaymentMethodPaypal:
		prefix = "paypal"
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	if amount.IsNegative() {
		return Result{}, fmt.Errorf("charge amount must not be negative")
	}
	if s.failureRate > 0 && s.roll() < s.failureRate {
		return Result{Status: enum.PaymentStatusFailed}, nil
	}

	return Result{
		Status:        enum.PaymentStatusCompleted,
		TransactionID: fmt.Sprintf("%s_%d", prefix, s.now().UnixMilli()),
	}, nil
}
