package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"gigledger/internal/core"
	"gigledger/internal/ledger"
)

var _ ledger.Store = (*Store)(nil)

// Store keeps every collection in process memory.
type Store struct {
	mu        sync.RWMutex
	expenses  []core.RecurringExpense
	instances []core.MonthlyExpenseInstance
	gigs      []core.Gig
	packages  []core.Package
	now       func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

// NewFromSnapshot seeds the store. Records without an ID receive one.
func NewFromSnapshot(s core.Snapshot) *Store {
	st := New()
	for _, e := range s.Expenses {
		st.expenses = append(st.expenses, withExpenseID(e))
	}
	for _, i := range s.Instances {
		if i.ID == "" {
			i.ID = uuid.NewString()
		}
		st.instances = append(st.instances, i)
	}
	for _, g := range s.Gigs {
		if g.ID == "" {
			g.ID = uuid.NewString()
		}
		st.gigs = append(st.gigs, g)
	}
	for _, p := range s.Packages {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		st.packages = append(st.packages, p)
	}
	return st
}

// NewFromFile seeds the store from a JSON seed file.
func NewFromFile(path string) (*Store, error) {
	snap, err := ledger.LoadSeed(path)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	return NewFromSnapshot(snap), nil
}

func withExpenseID(e core.RecurringExpense) core.RecurringExpense {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return e
}

// Snapshot returns copies so callers cannot mutate the store.
func (s *Store) Snapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Snapshot{
		Expenses:  slices.Clone(s.expenses),
		Instances: slices.Clone(s.instances),
		Gigs:      slices.Clone(s.gigs),
		Packages:  slices.Clone(s.packages),
	}, nil
}

func (s *Store) SaveExpense(_ context.Context, e core.RecurringExpense) (core.RecurringExpense, error) {
	e = withExpenseID(e)
	if err := e.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = upsert(s.expenses, e, func(x core.RecurringExpense) bool { return x.ID == e.ID })
	return e, nil
}

// DeleteExpense removes the expense. Overrides pointing at it are left in
// place as dangling references.
func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.expenses)
	s.expenses = slices.DeleteFunc(s.expenses, func(e core.RecurringExpense) bool { return e.ID == id })
	if len(s.expenses) == n {
		return fmt.Errorf("%w: %s", core.ErrExpenseNotFound, id)
	}
	return nil
}

func (s *Store) UpsertInstance(_ context.Context, i core.MonthlyExpenseInstance) (core.MonthlyExpenseInstance, error) {
	if err := i.Validate(); err != nil {
		return core.MonthlyExpenseInstance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := func(x core.MonthlyExpenseInstance) bool {
		return x.SourceRecurringExpenseID == i.SourceRecurringExpenseID && x.MonthKey == i.MonthKey
	}
	if idx := slices.IndexFunc(s.instances, slot); idx >= 0 {
		i.ID = s.instances[idx].ID
	} else if i.ID == "" {
		i.ID = uuid.NewString()
	}
	s.instances = upsert(s.instances, i, slot)
	return i, nil
}

func (s *Store) DeleteInstance(_ context.Context, expenseID string, month core.MonthKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = slices.DeleteFunc(s.instances, func(x core.MonthlyExpenseInstance) bool {
		return x.SourceRecurringExpenseID == expenseID && x.MonthKey == month
	})
	return nil
}

func (s *Store) SaveGig(_ context.Context, g core.Gig) (core.Gig, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now().UTC()
	}
	if err := g.Validate(); err != nil {
		return core.Gig{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gigs = upsert(s.gigs, g, func(x core.Gig) bool { return x.ID == g.ID })
	return g, nil
}

func (s *Store) DeleteGig(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.gigs)
	s.gigs = slices.DeleteFunc(s.gigs, func(g core.Gig) bool { return g.ID == id })
	if len(s.gigs) == n {
		return fmt.Errorf("%w: %s", core.ErrGigNotFound, id)
	}
	return nil
}

func (s *Store) SavePackage(_ context.Context, p core.Package) (core.Package, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := p.Validate(); err != nil {
		return core.Package{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages = upsert(s.packages, p, func(x core.Package) bool { return x.ID == p.ID })
	return p, nil
}

// DeletePackage removes the package. Linked gigs keep their PackageID and
// stay excluded from gig income.
func (s *Store) DeletePackage(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.packages)
	s.packages = slices.DeleteFunc(s.packages, func(p core.Package) bool { return p.ID == id })
	if len(s.packages) == n {
		return fmt.Errorf("%w: %s", core.ErrPackageNotFound, id)
	}
	return nil
}

func (s *Store) Close() error { return nil }

func upsert[T any](items []T, v T, match func(T) bool) []T {
	if idx := slices.IndexFunc(items, match); idx >= 0 {
		items[idx] = v
		return items
	}
	return append(items, v)
}
