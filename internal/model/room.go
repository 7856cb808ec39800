package model

// Room represents a screening room.  Rooms are static reference
// data managed by administrators.  Sessions reference a room and
// are removed when the room is deleted.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – display name of the room.
//  Capacity – number of seats in the room.
type Room struct {
    ID       uint64 // rooms.id
    Name     string // rooms.name
    Capacity uint32 // rooms.capacity
}
