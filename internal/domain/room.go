package domain

// RoomID names a partition of members and questions. Rooms are implicit:
// there is no Room record, membership and question ownership are both
// keyed by this id.
type RoomID string
