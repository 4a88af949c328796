package board

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sgurin/askroom/internal/domain"
)

func (ctl *BoardWSController) handleJoin(sess *session, payload []byte) {
	type joinPayload struct {
		RoomID   string `json:"roomId"`
		Username string `json:"username"`
	}
	var p joinPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		log.Error().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("bad join payload")
		ctl.sendError(sess.conn, "bad_payload")
		return
	}

	member, err := domain.NewMember(domain.RoomID(strings.TrimSpace(p.RoomID)), strings.TrimSpace(p.Username))
	if err != nil {
		log.Warn().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("join rejected")
		ctl.sendError(sess.conn, err.Error())
		return
	}

	if err := ctl.Registry.Join(sess.cid, member, sess.conn, sess.cancel); err != nil {
		log.Warn().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("repeat join")
		ctl.sendError(sess.conn, "already_joined")
		return
	}
	log.Info().Str("module", "board").Str("cid", string(sess.cid)).Str("room", p.RoomID).Str("username", member.Name).Msg("join")
}
