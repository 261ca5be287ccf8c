package memory

import (
	"context"
	"slices"
	"time"

	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
)

type contractRepository struct {
	access accessor
}

func (r *contractRepository) Create(_ context.Context, contract *entity.Contract) error {
	return r.access(func(s *state) error {
		if contract.ID == uuid.Nil {
			contract.ID = uuid.New()
		}
		keep(s, s.contracts, contract.ID, nil)
		s.contracts[contract.ID] = copyContract(contract)

		return nil
	})
}

func (r *contractRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Contract, error) {
	var out *entity.Contract
	err := r.access(func(s *state) error {
		c, ok := s.contracts[id]
		if !ok {
			return repository.ErrContractNotFound
		}
		out = copyContract(c)

		return nil
	})

	return out, err
}

func (r *contractRepository) Activate(_ context.Context, id uuid.UUID, at time.Time) error {
	return r.access(func(s *state) error {
		c, ok := s.contracts[id]
		if !ok {
			return repository.ErrContractNotFound
		}
		if c.Status != entity.ContractPendingAcceptance {
			return repository.ErrStaleWrite
		}
		keep(s, s.contracts, id, copyContract)
		c.Status = entity.ContractActive
		accepted := at
		c.AcceptedAt = &accepted

		return nil
	})
}

func (r *contractRepository) ListByPlayer(_ context.Context, playerID uuid.UUID) ([]*entity.Contract, error) {
	var out []*entity.Contract
	err := r.access(func(s *state) error {
		for _, c := range s.contracts {
			if c.SellerID == playerID || c.BuyerID == playerID {
				out = append(out, copyContract(c))
			}
		}

		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Contract) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return out, err
}
