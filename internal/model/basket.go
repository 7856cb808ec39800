package model

import "time"

// Basket records how many tickets a user holds for one session.
// There is at most one basket row per (user, session) pair; adding
// tickets for the same session increments the quantity in place.
// The paid flag starts false and flips to true exactly once when a
// payment confirmation arrives.  It never flips back, and a paid
// row is no longer mutated.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the basket (cascade-deleted with the user).
//  SessionID – session the tickets are for.
//  Quantity  – ticket count, always >= 1.
//  Paid      – payment state; false is the only mutable state.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Basket struct {
    ID        uint64    // baskets.id
    UserID    uint64    // baskets.user_id
    SessionID uint64    // baskets.session_id
    Quantity  uint32    // baskets.quantity
    Paid      bool      // baskets.paid
    CreatedAt time.Time // baskets.created_at
    UpdatedAt time.Time // baskets.updated_at
}
