package testutil

import (
	"encoding/binary"
	"sync"

	"github.com/roach88/entitygraph/internal/store"
)

// HandleN returns the handle whose last eight bytes encode n, e.g.
// HandleN(10) is 00000000-0000-0000-0000-00000000000a. HandleN(0) is the
// zero handle.
func HandleN(n uint64) store.Handle {
	var h store.Handle
	binary.BigEndian.PutUint64(h[8:], n)
	return h
}

// SequentialHandles issues HandleN(1), HandleN(2), ... in order.
//
// Unlike store.RandomHandles, SequentialHandles can be reset for test reuse,
// so the same scenario run twice produces byte-identical dumps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialHandles struct {
	mu  sync.Mutex
	seq uint64
}

// NewSequentialHandles creates a source whose first handle is HandleN(1).
func NewSequentialHandles() *SequentialHandles {
	return &SequentialHandles{}
}

// NextHandle implements store.HandleSource.
func (s *SequentialHandles) NextHandle() store.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return HandleN(s.seq)
}

// Issued returns how many handles have been issued.
func (s *SequentialHandles) Issued() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Reset restarts the sequence at HandleN(1).
func (s *SequentialHandles) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
}

// ScriptedHandles replays a fixed list of handles, then falls back to a
// sequence starting after the largest scripted value.
//
// Scripts may repeat handles or contain the zero handle to drive the
// store's collision probing:
//
//	src := testutil.NewScriptedHandles(1, 1, 0, 2)
//	// first entity gets HandleN(1); the second probes past the
//	// duplicate and the zero handle and gets HandleN(2)
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ScriptedHandles struct {
	mu     sync.Mutex
	script []uint64
	next   int
	drawn  int
	after  uint64
}

// NewScriptedHandles creates a source replaying HandleN(n) for each n.
func NewScriptedHandles(script ...uint64) *ScriptedHandles {
	var top uint64
	for _, n := range script {
		top = max(top, n)
	}
	return &ScriptedHandles{script: script, after: top}
}

// NextHandle implements store.HandleSource.
func (s *ScriptedHandles) NextHandle() store.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawn++
	if s.next < len(s.script) {
		n := s.script[s.next]
		s.next++
		return HandleN(n)
	}
	s.after++
	return HandleN(s.after)
}

// Drawn returns how many candidates the store has requested, including
// ones it rejected while probing.
func (s *ScriptedHandles) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}
