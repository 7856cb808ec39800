// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a
// validation failure never reaches the store, a not-found condition maps
// to 404, a conflict to 409, and a "nothing to do" condition is a benign
// empty result rather than a hard error.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrMovieNotFound is returned when a movie lookup matches no row.
var ErrMovieNotFound = errors.New("movie not found")

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrSessionNotFound is returned when a session lookup matches no row,
// including when creating a basket against a nonexistent session.
var ErrSessionNotFound = errors.New("session not found")

// ErrBasketNotFound is returned when a basket lookup matches no row or
// the row belongs to a different user.
var ErrBasketNotFound = errors.New("basket not found")

// ErrInvalidQuantity is returned before any SQL runs when a basket
// operation receives a quantity below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrAlreadyPaid is returned when attempting to add tickets to a basket
// that has already been paid.  Paid is a terminal state for the row.
var ErrAlreadyPaid = errors.New("basket already paid")

// ErrNothingToPay is returned by checkout when the user has no unpaid
// baskets.  Callers should treat it as a benign empty-result condition.
var ErrNothingToPay = errors.New("nothing to pay")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
