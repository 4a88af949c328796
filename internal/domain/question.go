// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxQuestionLen = 500

var (
	ErrQuestionEmpty   = errors.New("question empty")
	ErrQuestionTooLong = errors.New("question too long")
)

// QuestionID is allocated by the store, monotonically increasing for the
// lifetime of the process.
type QuestionID int64

// Question json tags match the wire shape of a history item.
type Question struct {
	ID     QuestionID `json:"questionId"`
	Text   string     `json:"question"`
	Votes  int        `json:"vote"`
	Room   RoomID     `json:"roomId"`
	Author string     `json:"username"`
	Time   string     `json:"time"`
}
