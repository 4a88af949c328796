package board

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sgurin/askroom/internal/core"
)

// envelope is the wire unit in both directions.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func marshalFrame(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

func (ctl *BoardWSController) writePump(ctx context.Context, c *WsBoardConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		// unblocks readPump when the server ctx is canceled
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "board").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "board").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "board").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "board").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *BoardWSController) readPump(ctx context.Context, sess *session, c *WsBoardConn) {
	defer func() {
		log.Info().Str("module", "board").Str("cid", string(sess.cid)).Msg("readPump closing")
		ctl.Registry.Leave(sess.cid)
		ctl.limiter.Forget(sess.cid)
		sess.cancel()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "board").Str("cid", string(sess.cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("readPump read error")
				return
			}
			if !ctl.limiter.Allow(sess.cid) {
				log.Warn().Str("module", "board").Str("cid", string(sess.cid)).Msg("rate limited")
				ctl.sendError(sess.conn, "rate_limited")
				continue
			}
			ctl.handleMessage(sess, data)
		}
	}
}

// handleMessage decodes one inbound envelope and dispatches on its type.
// Bad input never kills the connection.
func (ctl *BoardWSController) handleMessage(sess *session, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "board").Str("cid", string(sess.cid)).Msg("bad json")
		ctl.sendError(sess.conn, "bad_payload")
		return
	}

	switch env.Type {
	case "join":
		ctl.handleJoin(sess, env.Payload)
	case "question":
		ctl.handlePost(sess, env.Payload)
	case "vote":
		ctl.handleVote(sess, env.Payload)
	case "requesthistory":
		ctl.handleHistory(sess)
	case "ping":
		ctl.handlePing(sess)
	default:
		log.Warn().Str("module", "board").Str("type", env.Type).Msg("unknown message type")
		ctl.sendError(sess.conn, "unknown_type")
	}
}

func (ctl *BoardWSController) sendJSON(s core.Sender, v any) {
	f, err := marshalFrame(v)
	if err != nil {
		log.Error().Err(err).Str("module", "board").Msg("sendJSON marshal")
		return
	}
	_ = s.TrySend(f)
}

func (ctl *BoardWSController) sendError(s core.Sender, reason string) {
	ctl.sendJSON(s, outEnvelope{Type: "error", Payload: errorEvent{Error: reason}})
}
