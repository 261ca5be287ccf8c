package memory

import (
	"context"
	"slices"
	"time"

	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ledgerRepository struct {
	access accessor
}

func (r *ledgerRepository) Create(_ context.Context, tx *entity.Transaction) error {
	return r.access(func(s *state) error {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		if _, exists := s.ledger[tx.ID]; exists {
			return repository.ErrDuplicateExternalRef
		}
		if tx.ExternalRef != "" {
			if _, exists := s.ledgerRefs[tx.ExternalRef]; exists {
				return repository.ErrDuplicateExternalRef
			}
			keep(s, s.ledgerRefs, tx.ExternalRef, nil)
			s.ledgerRefs[tx.ExternalRef] = tx.ID
		}
		keep(s, s.ledger, tx.ID, nil)
		s.ledger[tx.ID] = copyTransaction(tx)
		n := len(s.ledgerOrder)
		s.ledgerOrder = append(s.ledgerOrder, tx.ID)
		s.onUndo(func() { s.ledgerOrder = s.ledgerOrder[:n] })

		return nil
	})
}

func (r *ledgerRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.access(func(s *state) error {
		t, ok := s.ledger[id]
		if !ok {
			return repository.ErrTransactionNotFound
		}
		out = copyTransaction(t)

		return nil
	})

	return out, err
}

func (r *ledgerRepository) FindByExternalRef(_ context.Context, ref string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.access(func(s *state) error {
		id, ok := s.ledgerRefs[ref]
		if !ok {
			return repository.ErrTransactionNotFound
		}
		out = copyTransaction(s.ledger[id])

		return nil
	})

	return out, err
}

func (r *ledgerRepository) List(_ context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	var out []*entity.Transaction
	err := r.access(func(s *state) error {
		for _, id := range slices.Backward(s.ledgerOrder) {
			t := s.ledger[id]
			if matchesTransaction(t, filter) {
				out = append(out, copyTransaction(t))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paginate(out, filter.Offset, filter.Limit), nil
}

func (r *ledgerRepository) Count(_ context.Context, filter entity.TransactionFilter) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		for _, t := range s.ledger {
			if matchesTransaction(t, filter) {
				n++
			}
		}

		return nil
	})

	return n, err
}

func (r *ledgerRepository) SumCompleted(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.access(func(s *state) error {
		for _, t := range s.ledger {
			if t.Status == entity.TxStatusCompleted {
				total = total.Add(t.Amount)
			}
		}

		return nil
	})

	return total, err
}

func (r *ledgerRepository) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.TransactionStatus, at time.Time) error {
	return r.access(func(s *state) error {
		t, ok := s.ledger[id]
		if !ok {
			return repository.ErrTransactionNotFound
		}
		if t.Status != from {
			return repository.ErrStaleWrite
		}
		keep(s, s.ledger, id, copyTransaction)
		t.Status = to
		completed := at
		t.CompletedAt = &completed

		return nil
	})
}

func (r *ledgerRepository) SumPending(_ context.Context, txType entity.TransactionType) (decimal.Decimal, int64, error) {
	total := decimal.Zero
	var count int64
	err := r.access(func(s *state) error {
		for _, t := range s.ledger {
			if t.Type == txType && t.Status == entity.TxStatusPending {
				total = total.Add(t.Amount)
				count++
			}
		}

		return nil
	})

	return total, count, err
}

func (r *ledgerRepository) FirstCreatedAt(_ context.Context) (*time.Time, error) {
	var first *time.Time
	err := r.access(func(s *state) error {
		for _, t := range s.ledger {
			if first == nil || t.CreatedAt.Before(*first) {
				at := t.CreatedAt
				first = &at
			}
		}

		return nil
	})

	return first, err
}

func matchesTransaction(t *entity.Transaction, f entity.TransactionFilter) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.PlayerID != nil {
		from := t.FromPlayerID != nil && *t.FromPlayerID == *f.PlayerID
		to := t.ToPlayerID != nil && *t.ToPlayerID == *f.PlayerID
		if !from && !to {
			return false
		}
	}

	return true
}
