package service

import (
	"context"
	"log"
	"time"

	"github.com/cinearc/cinearc-api/internal/payment"
	"github.com/cinearc/cinearc-api/internal/queue"
	"github.com/cinearc/cinearc-api/internal/repository"
)

// CheckoutConfig carries the pricing and redirect settings the checkout
// workflow needs.  The per-ticket price is configuration, never a
// literal in the workflow itself.
type CheckoutConfig struct {
	TicketPriceCents int64  // price of one ticket in minor currency units
	FrontendBaseURL  string // success/cancel redirect targets live under this base
}

// CheckoutService implements the payment workflow over a user's unpaid
// baskets: initiate a hosted payment session, flip the baskets to paid
// on confirmation, and acknowledge cancellations without touching
// state.
type CheckoutService struct {
	baskets *repository.BasketRepo
	creator payment.CheckoutCreator
	cfg     CheckoutConfig

	// publish is swappable in tests; it defaults to the RabbitMQ
	// publisher and is always best-effort.
	publish func(context.Context, queue.PaymentConfirmedEvent) error
}

// NewCheckoutService constructs a CheckoutService.  baskets and creator
// must be non-nil.
func NewCheckoutService(baskets *repository.BasketRepo, creator payment.CheckoutCreator, cfg CheckoutConfig) *CheckoutService {
	if baskets == nil || creator == nil {
		panic("nil dependency passed to NewCheckoutService")
	}
	return &CheckoutService{
		baskets: baskets,
		creator: creator,
		cfg:     cfg,
		publish: PublishPaymentConfirmed,
	}
}

// InitiateCheckout collects the user's unpaid baskets and creates a
// payment session for their total.  When the user has nothing unpaid it
// returns ErrNothingToPay and no provider call is made.  The returned
// string is the provider's opaque session handle.
func (s *CheckoutService) InitiateCheckout(ctx context.Context, userID uint64) (string, error) {
	unpaid, err := s.baskets.ListUnpaidByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(unpaid) == 0 {
		return "", repository.ErrNothingToPay
	}
	var tickets int64
	for _, b := range unpaid {
		tickets += int64(b.Quantity)
	}
	return s.creator.CreateSession(ctx,
		s.cfg.TicketPriceCents, tickets,
		s.cfg.FrontendBaseURL+"/payment/success",
		s.cfg.FrontendBaseURL+"/payment/cancel")
}

// ConfirmPayment marks every currently unpaid basket of the user as
// paid in one atomic bulk update and returns the number of baskets that
// changed.  Zero means there was nothing to update; calling again after
// all baskets are paid is a no-op.  A payment.confirmed event is
// published best-effort after the commit; a broker outage never fails
// a confirmation that already happened.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, userID uint64) (int64, error) {
	unpaid, err := s.baskets.ListUnpaidByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	var tickets int64
	for _, b := range unpaid {
		tickets += int64(b.Quantity)
	}

	n, err := s.baskets.MarkUnpaidPaid(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	ev := queue.PaymentConfirmedEvent{
		UserID:           userID,
		BasketCount:      n,
		TicketCount:      tickets,
		TotalAmountCents: tickets * s.cfg.TicketPriceCents,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if perr := s.publish(ctx, ev); perr != nil {
		log.Printf("checkout: publish payment.confirmed failed: %v", perr)
	}
	return n, nil
}

// CancelPayment acknowledges a payment cancellation.  Cancellation does
// not reset any in-progress state; baskets stay unpaid and checkout can
// be initiated again.
func (s *CheckoutService) CancelPayment(userID uint64) {
	log.Printf("checkout: payment cancelled by user %d; baskets unchanged", userID)
}
