package board

import (
	"cmp"
	"encoding/json"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/sgurin/askroom/internal/domain"
)

func (ctl *BoardWSController) handlePost(sess *session, payload []byte) {
	snap, ok := ctl.Registry.Get(sess.cid)
	if !ok {
		log.Warn().Str("module", "board").Str("cid", string(sess.cid)).Msg("post before join")
		ctl.sendError(sess.conn, "not_joined")
		return
	}

	type postPayload struct {
		Question string `json:"question"`
		Time     string `json:"time"`
	}
	var p postPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Error().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("bad question payload")
		ctl.sendError(sess.conn, "bad_payload")
		return
	}

	q, err := ctl.Store.Create(snap.Member.Room, snap.Member.Name, p.Question, p.Time)
	if err != nil {
		log.Warn().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("question rejected")
		ctl.sendError(sess.conn, err.Error())
		return
	}

	ctl.Publish(snap.Member.Room, outEnvelope{Type: "question", Payload: questionEvent{
		Question:   q.Text,
		QuestionID: q.ID,
		Vote:       q.Votes,
		Username:   q.Author,
		Time:       q.Time,
	}})
}

func (ctl *BoardWSController) handleVote(sess *session, payload []byte) {
	snap, ok := ctl.Registry.Get(sess.cid)
	if !ok {
		log.Warn().Str("module", "board").Str("cid", string(sess.cid)).Msg("vote before join")
		ctl.sendError(sess.conn, "not_joined")
		return
	}

	type votePayload struct {
		QuestionID domain.QuestionID `json:"questionId"`
	}
	var p votePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Error().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("bad vote payload")
		ctl.sendError(sess.conn, "bad_payload")
		return
	}

	votes, found := ctl.Store.RecordVote(p.QuestionID)
	if !found {
		// no broadcast for a vote on an id nobody has
		log.Warn().Str("module", "board").Str("cid", string(sess.cid)).Int64("qid", int64(p.QuestionID)).Msg("vote on unknown question")
		ctl.sendError(sess.conn, "unknown_question")
		return
	}

	ctl.Publish(snap.Member.Room, outEnvelope{Type: "vote", Payload: voteEvent{
		QuestionID:  p.QuestionID,
		UpdatedVote: votes,
	}})
}

func (ctl *BoardWSController) handleHistory(sess *session) {
	snap, ok := ctl.Registry.Get(sess.cid)
	if !ok {
		log.Warn().Str("module", "board").Str("cid", string(sess.cid)).Msg("history before join")
		ctl.sendError(sess.conn, "not_joined")
		return
	}

	qs := ctl.Store.ListByRoom(snap.Member.Room)
	sortHistory(qs)
	ctl.sendJSON(sess.conn, outEnvelope{Type: "history", Payload: historyEvent{Questions: qs}})
}

// sortHistory orders by vote count descending; equal counts fall back to
// ascending id, so two snapshots of the same board always agree.
func sortHistory(qs []domain.Question) {
	slices.SortFunc(qs, func(a, b domain.Question) int {
		if c := cmp.Compare(b.Votes, a.Votes); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
