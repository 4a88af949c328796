// Package store owns question records. In-memory only: the board does not
// survive a restart.
package store

import (
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sgurin/askroom/internal/domain"
)

// Questions is the question store. All access goes through the mutex; id
// allocation shares it so ids are unique and monotonic under concurrent
// callers.
type Questions struct {
	mu     sync.RWMutex
	nextID domain.QuestionID
	byID   map[domain.QuestionID]*domain.Question
}

func NewQuestions() *Questions {
	return &Questions{byID: make(map[domain.QuestionID]*domain.Question)}
}

// Create stores a new question with zero votes and returns a copy of the
// record. Text is trimmed first; empty or over-long text is rejected.
func (s *Questions) Create(room domain.RoomID, author, text, ts string) (domain.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Question{}, domain.ErrQuestionEmpty
	}
	if len(text) > domain.MaxQuestionLen {
		return domain.Question{}, domain.ErrQuestionTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	q := &domain.Question{
		ID:     s.nextID,
		Text:   text,
		Room:   room,
		Author: author,
		Time:   ts,
	}
	s.byID[q.ID] = q
	log.Info().Str("module", "store").Int64("qid", int64(q.ID)).Str("room", string(room)).Msg("question created")
	return *q, nil
}

// RecordVote increments the vote count by exactly one and returns the new
// total. The increment happens under the store lock, so concurrent votes on
// the same question are never lost.
func (s *Questions) RecordVote(id domain.QuestionID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	q.Votes++
	return q.Votes, true
}

// ListByRoom returns copies of every question in the room, in no particular
// order. Sorting is the caller's job.
func (s *Questions) ListByRoom(room domain.RoomID) []domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Question, 0, len(s.byID))
	for _, q := range s.byID {
		if q.Room == room {
			out = append(out, *q)
		}
	}
	return out
}
