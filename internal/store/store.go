package store

import (
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/entitygraph/internal/entity"
	"github.com/roach88/entitygraph/internal/metrics"
)

// Operation names used in errors, logs and metrics.
const (
	opNew    = "new"
	opCreate = "new_entity"
	opMerge  = "merge"
	opRemove = "remove"
	opGet    = "get"
)

// Store is an in-memory entity graph.
//
// Thread-safety: all methods are safe for concurrent use.
type Store struct {
	id       uuid.UUID
	strategy Strategy
	handles  HandleSource
	logger   *slog.Logger
	metrics  *metrics.StoreMetrics

	mu  sync.RWMutex
	idx index
}

// index is the composite state guarded by Store.mu.
type index struct {
	entities map[entity.Identity]*ManagedEntity
	handles  map[Handle]entity.Identity
	order    []entity.Identity // insertion order
	version  int64             // bumped once per committed mutation
}

// Option configures a Store.
type Option func(*Store)

// WithStrategy sets the merge strategy. Default: DefaultStrategy (ByValue).
func WithStrategy(s Strategy) Option {
	return func(st *Store) {
		st.strategy = s
	}
}

// WithHandleSource replaces the random handle source.
// Tests use testutil.ScriptedHandles for reproducible handles.
func WithHandleSource(h HandleSource) Option {
	return func(st *Store) {
		st.handles = h
	}
}

// WithLogger sets the logger. Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(st *Store) {
		st.logger = l
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(st *Store) {
		st.metrics = m
	}
}

// WithID fixes the store ID instead of drawing a random one.
func WithID(id uuid.UUID) Option {
	return func(st *Store) {
		st.id = id
	}
}

// New creates an empty store.
//
// Returns an UNSUPPORTED_STRATEGY error if the configured strategy is not
// one of ByIdentity, ByReference or ByValue, so Merge never has to handle an
// unknown strategy in practice.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		id:       uuid.New(),
		strategy: DefaultStrategy,
		handles:  RandomHandles{},
		idx: index{
			entities: make(map[entity.Identity]*ManagedEntity),
			handles:  make(map[Handle]entity.Identity),
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	if !s.strategy.IsValid() {
		return nil, unsupportedStrategy(opNew, s.strategy)
	}
	if s.handles == nil {
		return nil, invalidArgument(opNew, "handle source is required")
	}
	if s.id == uuid.Nil {
		return nil, invalidArgument(opNew, "store ID must not be nil")
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s.logger = s.logger.With("store", s.id.String())
	s.metrics.SetEntities(s.id.String(), 0)
	return s, nil
}

// ID returns the store's unique ID.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// Strategy returns the merge strategy chosen at construction.
func (s *Store) Strategy() Strategy {
	return s.strategy
}

// Len returns the number of managed entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idx.order)
}

// Version returns the logical version: the number of committed mutations.
func (s *Store) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.version
}

// NewEntity creates and registers an empty managed entity.
//
// Returns DUPLICATE_IDENTITY if the identity is already managed, and
// INVALID_ARGUMENT for the zero identity.
func (s *Store) NewEntity(identity entity.Identity) (*ManagedEntity, error) {
	if identity.IsZero() {
		err := invalidArgument(opCreate, "identity is required")
		s.observe(opCreate, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.idx.entities[identity]; exists {
		err := duplicateIdentity(opCreate, identity)
		s.observe(opCreate, err)
		return nil, err
	}
	m := newManagedEntity(identity)
	if err := s.registerLocked(m); err != nil {
		s.observe(opCreate, err)
		return nil, err
	}
	s.idx.version++

	s.logger.Debug("entity created", "identity", identity.String(), "handle", m.Handle().String())
	s.observe(opCreate, nil)
	s.metrics.SetEntities(s.id.String(), len(s.idx.order))
	return m, nil
}

// FindByID returns the managed entity registered under handle. The zero
// handle is never assigned, so it reads as not found; use Get when a
// missing argument must be reported.
func (s *Store) FindByID(handle Handle) (*ManagedEntity, bool) {
	if handle.IsZero() {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.idx.handles[handle]
	if !ok {
		return nil, false
	}
	return s.idx.entities[identity], true
}

// FindByIdentity returns the managed entity with the given identity. The
// zero identity reads as not found.
func (s *Store) FindByIdentity(identity entity.Identity) (*ManagedEntity, bool) {
	if identity.IsZero() {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.idx.entities[identity]
	return m, ok
}

// Get is FindByIdentity with errors: INVALID_ARGUMENT for the zero
// identity, NOT_FOUND when the identity is not managed.
func (s *Store) Get(identity entity.Identity) (*ManagedEntity, error) {
	if identity.IsZero() {
		return nil, invalidArgument(opGet, "identity is required")
	}
	m, ok := s.FindByIdentity(identity)
	if !ok {
		return nil, notFound(opGet, identity, "entity is not managed by this store")
	}
	return m, nil
}

// Contains reports whether e is the exact instance this store manages under
// e's identity. A different instance with the same identity is not
// contained.
func (s *Store) Contains(e *ManagedEntity) bool {
	if e == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ownsLocked(e)
}

// Remove unregisters e and strips every reference to it from the surviving
// entities.
//
// Removing an entity this store does not own (already removed, owned by
// another store, or a distinct instance sharing an identity) is a no-op
// and returns false. Returns INVALID_ARGUMENT for a nil entity.
func (s *Store) Remove(e *ManagedEntity) (bool, error) {
	if e == nil {
		err := invalidArgument(opRemove, "entity is required")
		s.observe(opRemove, err)
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ownsLocked(e) {
		s.observe(opRemove, nil)
		return false, nil
	}
	if err := s.removeLocked(e); err != nil {
		s.observe(opRemove, err)
		return false, err
	}
	s.observe(opRemove, nil)
	return true, nil
}

// RemoveByIdentity removes the entity with the given identity and returns
// it, detached. Returns NOT_FOUND if no such entity is managed.
func (s *Store) RemoveByIdentity(identity entity.Identity) (*ManagedEntity, error) {
	if identity.IsZero() {
		err := invalidArgument(opRemove, "identity is required")
		s.observe(opRemove, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.idx.entities[identity]
	if !ok {
		err := notFound(opRemove, identity, "entity is not managed by this store")
		s.observe(opRemove, err)
		return nil, err
	}
	if err := s.removeLocked(m); err != nil {
		s.observe(opRemove, err)
		return nil, err
	}
	s.observe(opRemove, nil)
	return m, nil
}

// removeLocked detaches m, drops it from the index and cascades the
// removal to every survivor. Caller holds the write lock and has checked
// ownership.
func (s *Store) removeLocked(m *ManagedEntity) error {
	if err := m.detach(s.id); err != nil {
		return err
	}
	identity := m.Identity()
	delete(s.idx.handles, m.Handle())
	delete(s.idx.entities, identity)
	if i := slices.Index(s.idx.order, identity); i >= 0 {
		s.idx.order = slices.Delete(s.idx.order, i, i+1)
	}

	stripped := 0
	for _, id := range s.idx.order {
		stripped += s.idx.entities[id].removeReferences(identity)
	}
	s.idx.version++

	s.logger.Debug("entity removed",
		"identity", identity.String(),
		"references_stripped", stripped,
	)
	s.metrics.AddCascadeRemovals(stripped)
	s.metrics.SetEntities(s.id.String(), len(s.idx.order))
	return nil
}

// ownsLocked reports whether e is the instance registered under its
// identity. Caller holds either lock.
func (s *Store) ownsLocked(e *ManagedEntity) bool {
	return s.idx.entities[e.Identity()] == e
}

// registerLocked assigns a fresh handle to m, attaches it and adds it to
// the index. Caller holds the write lock.
func (s *Store) registerLocked(m *ManagedEntity) error {
	handle := s.nextHandleLocked()
	if err := m.attach(handle, s.id); err != nil {
		return err
	}
	s.idx.entities[m.Identity()] = m
	s.idx.handles[handle] = m.Identity()
	s.idx.order = append(s.idx.order, m.Identity())
	return nil
}

// getOrCreateLocked returns the managed entity for identity, registering
// a new empty one if absent. Caller holds the write lock.
func (s *Store) getOrCreateLocked(identity entity.Identity) (*ManagedEntity, bool, error) {
	if m, ok := s.idx.entities[identity]; ok {
		return m, false, nil
	}
	m := newManagedEntity(identity)
	if err := s.registerLocked(m); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// nextHandleLocked draws candidates from the handle source until one is
// unused. The zero handle is never issued. Caller holds the write lock.
func (s *Store) nextHandleLocked() Handle {
	for {
		h := s.handles.NextHandle()
		if h.IsZero() {
			continue
		}
		if _, used := s.idx.handles[h]; !used {
			return h
		}
		s.logger.Debug("handle collision, probing again", "handle", h.String())
	}
}

// observe records the outcome of one operation.
func (s *Store) observe(op string, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = resultLabel(err)
	}
	s.metrics.ObserveOperation(op, s.strategy.String(), result)
}
