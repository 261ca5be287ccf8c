// Package memory is an in-process implementation of the repositories.
// Transactions run one at a time and write in place; an undo journal restores
// the touched rows when a transaction fails.
package memory

import (
	"context"
	"slices"
	"sync"

	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
)

const defaultGridCellSize = 8

type state struct {
	players     map[uuid.UUID]*entity.Player
	wallets     map[string]uuid.UUID
	plots       map[uuid.UUID]*entity.Plot
	coords      map[[2]int]uuid.UUID
	businesses  map[uuid.UUID]*entity.Business
	grid        *gridIndex
	ledger      map[uuid.UUID]*entity.Transaction
	ledgerOrder []uuid.UUID
	ledgerRefs  map[string]uuid.UUID
	treasury    map[entity.TreasuryCategory]*entity.TreasuryEntry
	contracts   map[uuid.UUID]*entity.Contract
	devices     map[uuid.UUID]*entity.PlayerDevice
	journal     *journal
}

func newState() *state {
	return &state{
		players:    make(map[uuid.UUID]*entity.Player),
		wallets:    make(map[string]uuid.UUID),
		plots:      make(map[uuid.UUID]*entity.Plot),
		coords:     make(map[[2]int]uuid.UUID),
		businesses: make(map[uuid.UUID]*entity.Business),
		grid:       newGridIndex(defaultGridCellSize),
		ledger:     make(map[uuid.UUID]*entity.Transaction),
		ledgerRefs: make(map[string]uuid.UUID),
		treasury:   make(map[entity.TreasuryCategory]*entity.TreasuryEntry),
		contracts:  make(map[uuid.UUID]*entity.Contract),
		devices:    make(map[uuid.UUID]*entity.PlayerDevice),
	}
}

// journal records how to undo each write made by an open transaction. Only
// touched rows are copied, so the cost of a transaction does not grow with
// the size of the store.
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	j.undo = append(j.undo, fn)
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// onUndo registers fn to run if the open transaction is rolled back.
func (s *state) onUndo(fn func()) {
	if s.journal != nil {
		s.journal.record(fn)
	}
}

// keep remembers the current value stored under k so a rollback restores it,
// or removes the key when it did not exist. snapshot copies pointer values
// that are about to be mutated in place.
func keep[K comparable, V any](s *state, m map[K]V, k K, snapshot func(V) V) {
	if s.journal == nil {
		return
	}
	old, existed := m[k]
	if existed && snapshot != nil {
		old = snapshot(old)
	}
	s.journal.record(func() {
		if existed {
			m[k] = old
		} else {
			delete(m, k)
		}
	})
}

func (s *state) gridInsert(id uuid.UUID, x, y int) {
	s.grid.insert(id, x, y)
	s.onUndo(func() { s.grid.remove(id, x, y) })
}

func (s *state) gridRemove(id uuid.UUID, x, y int) {
	s.grid.remove(id, x, y)
	s.onUndo(func() { s.grid.insert(id, x, y) })
}

// accessor runs fn against the state a repository is bound to.
type accessor func(fn func(s *state) error) error

// Store owns the committed state.
type Store struct {
	mu        sync.Mutex
	committed *state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{committed: newState()}
}

// direct accesses the committed state; each call is its own transaction.
func (st *Store) direct(fn func(s *state) error) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	return fn(st.committed)
}

// Execute runs fn against the committed state under the store lock. When fn
// fails, panics or the context ends, every write it made is undone.
// Repositories handed out outside Execute must not be used from inside fn;
// they would wait on the same lock.
func (st *Store) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	working := st.committed
	j := &journal{}
	working.journal = j
	committed := false
	defer func() {
		working.journal = nil
		if !committed {
			j.rollback()
		}
	}()

	bound := func(f func(s *state) error) error { return f(working) }
	if err := fn(&repositoryFactory{access: bound}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true

	return nil
}

// NewTransactionManager exposes the store as a repository.TransactionManager.
func NewTransactionManager(st *Store) repository.TransactionManager {
	return st
}

type repositoryFactory struct {
	access accessor
}

func (f *repositoryFactory) NewPlayerRepository() repository.PlayerRepository {
	return &playerRepository{access: f.access}
}

func (f *repositoryFactory) NewPlotRepository() repository.PlotRepository {
	return &plotRepository{access: f.access}
}

func (f *repositoryFactory) NewBusinessRepository() repository.BusinessRepository {
	return &businessRepository{access: f.access}
}

func (f *repositoryFactory) NewLedgerRepository() repository.LedgerRepository {
	return &ledgerRepository{access: f.access}
}

func (f *repositoryFactory) NewTreasuryRepository() repository.TreasuryRepository {
	return &treasuryRepository{access: f.access}
}

func (f *repositoryFactory) NewContractRepository() repository.ContractRepository {
	return &contractRepository{access: f.access}
}

func (f *repositoryFactory) NewDeviceRepository() repository.DeviceRepository {
	return &deviceRepository{access: f.access}
}

// Repositories returns repositories that operate on the committed state.
func (st *Store) Repositories() repository.RepositoryFactory {
	return &repositoryFactory{access: st.direct}
}

func copyPlayer(p *entity.Player) *entity.Player {
	c := *p
	return &c
}

func copyPlot(p *entity.Plot) *entity.Plot {
	c := *p
	if p.OwnerID != nil {
		owner := *p.OwnerID
		c.OwnerID = &owner
	}
	if p.BusinessID != nil {
		business := *p.BusinessID
		c.BusinessID = &business
	}
	if p.PurchasedAt != nil {
		at := *p.PurchasedAt
		c.PurchasedAt = &at
	}

	return &c
}

func copyBusiness(b *entity.Business) *entity.Business {
	c := *b
	c.ConnectedBusinesses = slices.Clone(b.ConnectedBusinesses)

	return &c
}

func copyTransaction(t *entity.Transaction) *entity.Transaction {
	c := *t
	c.FromPlayerID = copyUUIDPtr(t.FromPlayerID)
	c.ToPlayerID = copyUUIDPtr(t.ToPlayerID)
	c.PlotID = copyUUIDPtr(t.PlotID)
	c.BusinessID = copyUUIDPtr(t.BusinessID)
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}

	return &c
}

func copyContract(k *entity.Contract) *entity.Contract {
	c := *k
	if k.AcceptedAt != nil {
		at := *k.AcceptedAt
		c.AcceptedAt = &at
	}

	return &c
}

func copyDevice(d *entity.PlayerDevice) *entity.PlayerDevice {
	c := *d
	return &c
}

func copyTreasuryEntry(e *entity.TreasuryEntry) *entity.TreasuryEntry {
	c := *e
	return &c
}

func copyUUIDPtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id

	return &c
}
