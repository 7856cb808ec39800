package model

import "time"

// Session represents a scheduled screening of a movie in a room.
// Referential integrity to both the movie and the room is enforced
// with cascading foreign keys; deleting either removes the session.
//
// Fields:
//  ID       – primary key identifier.
//  MovieID  – movie being screened.
//  RoomID   – room hosting the screening.
//  StartsAt – date and time of the screening.
type Session struct {
    ID       uint64    // sessions.id
    MovieID  uint64    // sessions.movie_id
    RoomID   uint64    // sessions.room_id
    StartsAt time.Time // sessions.starts_at
}
