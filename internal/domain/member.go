package domain

import "errors"

const (
	MaxUsernameLen = 36
	MaxRoomIDLen   = 64
)

var (
	ErrUsernameEmpty   = errors.New("username empty")
	ErrUsernameTooLong = errors.New("username too long")
	ErrRoomEmpty       = errors.New("room empty")
	ErrRoomTooLong     = errors.New("room id too long")
)

// Member represents a joined connection's identity within a room.
// No transport or lifecycle logic here. Room and Name are fixed for
// the life of the connection.
type Member struct {
	Room RoomID `json:"roomId"`
	Name string `json:"username"`
}

// NewMember validates once at join time and avoids raw literals in adapters.
func NewMember(room RoomID, name string) (*Member, error) {
	if len(room) == 0 {
		return nil, ErrRoomEmpty
	}
	if len(room) > MaxRoomIDLen {
		return nil, ErrRoomTooLong
	}
	if len(name) == 0 {
		return nil, ErrUsernameEmpty
	}
	if len(name) > MaxUsernameLen {
		return nil, ErrUsernameTooLong
	}
	return &Member{Room: room, Name: name}, nil
}
