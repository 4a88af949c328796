// Package board is the websocket adapter for the question board: it upgrades
// connections, decodes inbound envelopes, drives the store and registry, and
// fans events out to rooms.
package board

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sgurin/askroom/internal/app"
	"github.com/sgurin/askroom/internal/config"
	"github.com/sgurin/askroom/internal/core"
	"github.com/sgurin/askroom/internal/domain"
	"github.com/sgurin/askroom/internal/store"
)

var ErrBackpressure = errors.New("backpressure")

type BoardWSController struct {
	Store    *store.Questions
	Registry *app.Registry

	cfg     *config.Config
	limiter *msgRateLimiter
}

func NewBoardWSController(cfg *config.Config, qs *store.Questions, reg *app.Registry) *BoardWSController {
	return &BoardWSController{
		Store:    qs,
		Registry: reg,
		cfg:      cfg,
		limiter:  newMsgRateLimiter(cfg.MsgRate, cfg.MsgWindow),
	}
}

// WsBoardConn wraps one websocket connection. Only writePump touches the
// socket for writes; everyone else goes through TrySend.
type WsBoardConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

// TrySend queues a frame without blocking. A full buffer means the client is
// not keeping up; the frame is dropped for this member only.
func (c *WsBoardConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsBoardConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// session is the per-connection state handed to every protocol handler.
// Room membership itself lives in the registry; a connection that never
// joined simply has no registry entry.
type session struct {
	cid    core.ConnID
	conn   core.Sender
	cancel context.CancelFunc
}

// HandleBoard upgrades the request and starts the connection's pumps. The id
// is fresh per connection, not per browser: two tabs are two members.
func (ctl *BoardWSController) HandleBoard(ctx context.Context, c *gin.Context) {
	cid := core.ConnID(uuid.NewString())
	log.Info().Str("module", "board").Str("cid", string(cid)).Str("sid", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.cfg.ReadLimit)

	conn := &WsBoardConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	sess := &session{cid: cid, conn: conn, cancel: cancel}

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sess, conn)
}

// Publish marshals the event once and best-effort delivers it to every
// current member of the room. One slow or dead member never blocks the rest.
func (ctl *BoardWSController) Publish(room domain.RoomID, v any) {
	f, err := marshalFrame(v)
	if err != nil {
		log.Error().Err(err).Str("module", "board").Msg("publish marshal")
		return
	}
	for _, snap := range ctl.Registry.MembersOf(room) {
		if err := snap.Sender.TrySend(f); err != nil {
			log.Warn().Err(err).Str("module", "board").Str("cid", string(snap.CID)).Str("room", string(room)).Msg("dropped delivery")
		}
	}
}
