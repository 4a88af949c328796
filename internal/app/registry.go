// Package app owns room membership: which connection sits in which room,
// under what name, and how to reach it.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sgurin/askroom/internal/core"
	"github.com/sgurin/askroom/internal/domain"
)

// ErrAlreadyJoined: one join per connection, room switching is not a thing.
var ErrAlreadyJoined = errors.New("connection already joined a room")

type memberEntry struct {
	Member *domain.Member
	Sender core.Sender
	Cancel context.CancelFunc
}

// Registry maps live connections to their room membership. It exclusively
// owns Member records; everyone else gets copies.
type Registry struct {
	mu      sync.RWMutex
	members map[core.ConnID]*memberEntry
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[core.ConnID]*memberEntry)}
}

// MemberSnap is a read-only view of one registered connection, safe to hold
// outside the registry lock.
type MemberSnap struct {
	CID    core.ConnID
	Member domain.Member
	Sender core.Sender
}

// Join registers the connection in its room. The sender is the connection's
// outbound handle; cancel tears the connection's tasks down on eviction.
func (r *Registry) Join(cid core.ConnID, m *domain.Member, s core.Sender, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[cid]; ok {
		return ErrAlreadyJoined
	}
	r.members[cid] = &memberEntry{Member: m, Sender: s, Cancel: cancel}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(m.Room)).Str("username", m.Name).Msg("joined room")
	return nil
}

// Leave removes the connection's membership. Idempotent: teardown paths may
// race and both call it.
func (r *Registry) Leave(cid core.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[cid]; !ok {
		return
	}
	delete(r.members, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("left room")
}

// Get looks up a connection's membership. Every post/vote/history action is
// gated on this succeeding.
func (r *Registry) Get(cid core.ConnID) (MemberSnap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.members[cid]
	if !ok {
		return MemberSnap{}, false
	}
	return MemberSnap{CID: cid, Member: *e.Member, Sender: e.Sender}, true
}

// MembersOf returns a snapshot of the room's current members. The dispatcher
// iterates this without holding the registry lock.
func (r *Registry) MembersOf(room domain.RoomID) []MemberSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSnap, 0, len(r.members))
	for cid, e := range r.members {
		if e.Member.Room == room {
			out = append(out, MemberSnap{CID: cid, Member: *e.Member, Sender: e.Sender})
		}
	}
	return out
}

// Cancel fires the connection's cancel func, ending its pumps. Used on
// server shutdown.
func (r *Registry) Cancel(cid core.ConnID) bool {
	r.mu.RLock()
	e, ok := r.members[cid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("canceled connection")
	return true
}
