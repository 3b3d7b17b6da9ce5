// Package store holds the latest pose of each player slot. It is the only
// state shared between stream readers and the game loop.
package store

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/okian/posefight/internal/domain/pose"
)

type slot struct {
	conn  io.Closer // nil when free
	frame *pose.Frame
}

// State is both slots read under one lock.
type State struct {
	Frames     [2]*pose.Frame
	Occupied   [2]bool
	// Generation increases every time a connection claims the slot, so a
	// reader can tell a new occupant from the previous one.
	Generation [2]uint64
}

// PoseStore guards both player slots with one mutex. Frames are immutable,
// so a snapshot hands out the pointers a single Set stored.
type PoseStore struct {
	mu    sync.Mutex
	slots [2]slot
	gen   [2]uint64
}

// New returns a store with both slots free.
func New() *PoseStore {
	return &PoseStore{}
}

// Claim assigns conn to the first free slot, PLAYER_1 before PLAYER_2.
// It returns ErrLobbyFull when both are taken.
func (s *PoseStore) Claim(conn io.Closer) (pose.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, role := range pose.Roles {
		sl := &s.slots[role.Index()]
		if sl.conn == nil {
			sl.conn = conn
			sl.frame = nil
			s.gen[role.Index()]++
			return role, nil
		}
	}
	return pose.RoleNone, ErrLobbyFull
}

// Set stores the latest frame for role. Only the reader that claimed role
// calls it. Frames for a free slot are dropped so that a free slot never
// holds a frame.
func (s *PoseStore) Set(role pose.Role, f *pose.Frame) error {
	i := role.Index()
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownRole, role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[i].conn != nil {
		s.slots[i].frame = f
	}
	return nil
}

// Snapshot returns both latest frames as of one instant.
func (s *PoseStore) Snapshot() (p1, p2 *pose.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[0].frame, s.slots[1].frame
}

// State returns frames, occupancy and claim generations as of one instant.
func (s *PoseStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	var st State
	for i, sl := range s.slots {
		st.Frames[i] = sl.frame
		st.Occupied[i] = sl.conn != nil
		st.Generation[i] = s.gen[i]
	}
	return st
}

// Clear resets the frame held for role.
func (s *PoseStore) Clear(role pose.Role) {
	i := role.Index()
	if i < 0 {
		return
	}
	s.mu.Lock()
	s.slots[i].frame = nil
	s.mu.Unlock()
}

// Release clears the frame and frees the slot for the next connection.
// It is a no-op unless conn is the connection holding role.
func (s *PoseStore) Release(role pose.Role, conn io.Closer) {
	i := role.Index()
	if i < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots[i].conn != conn {
		return
	}
	s.slots[i] = slot{}
}

// Occupied reports which slots currently hold a connection.
func (s *PoseStore) Occupied() (p1, p2 bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[0].conn != nil, s.slots[1].conn != nil
}

// Active returns the number of occupied slots.
func (s *PoseStore) Active() int {
	p1, p2 := s.Occupied()
	n := 0
	if p1 {
		n++
	}
	if p2 {
		n++
	}
	return n
}

// CloseAll closes every claimed connection. Slots are released by their
// readers once the pending reads fail.
func (s *PoseStore) CloseAll() error {
	s.mu.Lock()
	conns := make([]io.Closer, 0, len(s.slots))
	for _, sl := range s.slots {
		if sl.conn != nil {
			conns = append(conns, sl.conn)
		}
	}
	s.mu.Unlock()

	var errs []error
	for _, c := range conns {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
