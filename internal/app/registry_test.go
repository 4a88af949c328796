package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/sgurin/askroom/internal/core"
	"github.com/sgurin/askroom/internal/domain"
)

type nopSender struct{}

func (nopSender) TrySend(core.Frame) error { return nil }

func mustMember(t *testing.T, room, name string) *domain.Member {
	t.Helper()
	m, err := domain.NewMember(domain.RoomID(room), name)
	if err != nil {
		t.Fatalf("NewMember: %v", err)
	}
	return m
}

func TestJoinAndGet(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("c1"); ok {
		t.Fatal("Get succeeded before join")
	}

	if err := r.Join("c1", mustMember(t, "r1", "alice"), nopSender{}, nil); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	snap, ok := r.Get("c1")
	if !ok {
		t.Fatal("Get failed after join")
	}
	if snap.Member.Room != "r1" || snap.Member.Name != "alice" {
		t.Errorf("snapshot = %+v, want room r1 / alice", snap.Member)
	}
}

func TestRepeatJoinRejected(t *testing.T) {
	r := NewRegistry()

	if err := r.Join("c1", mustMember(t, "r1", "alice"), nopSender{}, nil); err != nil {
		t.Fatalf("first Join failed: %v", err)
	}
	if err := r.Join("c1", mustMember(t, "r2", "alice"), nopSender{}, nil); err != ErrAlreadyJoined {
		t.Fatalf("second Join error = %v, want ErrAlreadyJoined", err)
	}

	// membership unchanged by the rejected join
	snap, _ := r.Get("c1")
	if snap.Member.Room != "r1" {
		t.Errorf("room after rejected re-join = %q, want r1", snap.Member.Room)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	r := NewRegistry()

	r.Leave("ghost")

	if err := r.Join("c1", mustMember(t, "r1", "alice"), nopSender{}, nil); err != nil {
		t.Fatal(err)
	}
	r.Leave("c1")
	r.Leave("c1")

	if _, ok := r.Get("c1"); ok {
		t.Error("Get succeeded after leave")
	}
	if len(r.MembersOf("r1")) != 0 {
		t.Error("departed member still listed in room")
	}
}

func TestMembersOfScopesByRoom(t *testing.T) {
	r := NewRegistry()

	for _, j := range []struct{ cid, room, name string }{
		{"c1", "r1", "alice"},
		{"c2", "r1", "bob"},
		{"c3", "r2", "carol"},
	} {
		if err := r.Join(core.ConnID(j.cid), mustMember(t, j.room, j.name), nopSender{}, nil); err != nil {
			t.Fatal(err)
		}
	}

	got := r.MembersOf("r1")
	if len(got) != 2 {
		t.Fatalf("MembersOf(r1) returned %d members, want 2", len(got))
	}
	for _, snap := range got {
		if snap.Member.Room != "r1" {
			t.Errorf("member %s listed with room %q", snap.CID, snap.Member.Room)
		}
	}
}

func TestConcurrentJoinLeave(t *testing.T) {
	r := NewRegistry()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cid := core.ConnID(fmt.Sprintf("c%d", i))
			m, err := domain.NewMember("r1", "user")
			if err != nil {
				t.Error(err)
				return
			}
			_ = r.Join(cid, m, nopSender{}, nil)
			_ = r.MembersOf("r1")
			r.Leave(cid)
		}(i)
	}
	wg.Wait()

	if len(r.MembersOf("r1")) != 0 {
		t.Error("members remained after every connection left")
	}
}

func TestCancelFiresConnectionCancel(t *testing.T) {
	r := NewRegistry()

	fired := false
	if err := r.Join("c1", mustMember(t, "r1", "alice"), nopSender{}, func() { fired = true }); err != nil {
		t.Fatal(err)
	}

	if !r.Cancel("c1") {
		t.Fatal("Cancel reported unknown connection")
	}
	if !fired {
		t.Error("cancel func did not fire")
	}
	if r.Cancel("ghost") {
		t.Error("Cancel succeeded for unknown connection")
	}
}
