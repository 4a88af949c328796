package board

import "github.com/sgurin/askroom/internal/domain"

// Outbound payloads. A posted question goes to the whole room; history goes
// to the requester only and carries the full record including roomId.

type questionEvent struct {
	Question   string            `json:"question"`
	QuestionID domain.QuestionID `json:"questionId"`
	Vote       int               `json:"vote"`
	Username   string            `json:"username"`
	Time       string            `json:"time"`
}

type voteEvent struct {
	QuestionID  domain.QuestionID `json:"questionId"`
	UpdatedVote int               `json:"updatedVote"`
}

type historyEvent struct {
	Questions []domain.Question `json:"questions"`
}

type errorEvent struct {
	Error string `json:"error"`
}
