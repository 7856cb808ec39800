// Package queue defines message payloads exchanged over the message broker.
package queue

// PaymentConfirmedEvent is published after a user's unpaid baskets have
// been flipped to paid.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type PaymentConfirmedEvent struct {
    UserID           uint64 `json:"user_id"`
    BasketCount      int64  `json:"basket_count"`
    TicketCount      int64  `json:"ticket_count"`
    TotalAmountCents int64  `json:"total_amount_cents"`
    ConfirmedAt      string `json:"confirmed_at"`
}
