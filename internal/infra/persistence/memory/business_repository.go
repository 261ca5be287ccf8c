package memory

import (
	"context"
	"slices"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
)

type businessRepository struct {
	access accessor
}

func (r *businessRepository) Create(_ context.Context, business *entity.Business) error {
	return r.access(func(s *state) error {
		if business.ID == uuid.Nil {
			business.ID = uuid.New()
		}
		stored := copyBusiness(business)
		stored.NormalizeConnections()
		keep(s, s.businesses, business.ID, copyBusiness)
		s.businesses[business.ID] = stored
		if stored.IsActive {
			s.gridInsert(stored.ID, stored.X, stored.Y)
		}

		return nil
	})
}

func (r *businessRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Business, error) {
	var out *entity.Business
	err := r.access(func(s *state) error {
		b, ok := s.businesses[id]
		if !ok {
			return repository.ErrBusinessNotFound
		}
		out = copyBusiness(b)

		return nil
	})

	return out, err
}

func (r *businessRepository) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.Business, error) {
	var out []*entity.Business
	err := r.access(func(s *state) error {
		for _, b := range s.businesses {
			if b.OwnerID == ownerID {
				out = append(out, copyBusiness(b))
			}
		}

		return nil
	})
	sortBusinesses(out)

	return out, err
}

func (r *businessRepository) FindActiveWithin(_ context.Context, w economy.Window) ([]*entity.Business, error) {
	var out []*entity.Business
	err := r.access(func(s *state) error {
		for _, id := range s.grid.candidates(w) {
			b, ok := s.businesses[id]
			if !ok || !b.IsActive {
				continue
			}
			if b.X < w.MinX || b.X > w.MaxX || b.Y < w.MinY || b.Y > w.MaxY {
				continue
			}
			out = append(out, copyBusiness(b))
		}

		return nil
	})
	sortBusinesses(out)

	return out, err
}

func (r *businessRepository) ListActive(_ context.Context, after uuid.UUID, limit int) ([]*entity.Business, error) {
	var out []*entity.Business
	err := r.access(func(s *state) error {
		for _, b := range s.businesses {
			if b.IsActive && compareIDs(b.ID, after) > 0 {
				out = append(out, copyBusiness(b))
			}
		}

		return nil
	})
	sortBusinesses(out)

	return paginate(out, 0, limit), err
}

func (r *businessRepository) CountByOwnerAndType(_ context.Context, ownerID uuid.UUID, businessType string) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		for _, b := range s.businesses {
			if b.OwnerID == ownerID && b.Type == businessType {
				n++
			}
		}

		return nil
	})

	return n, err
}

func (r *businessRepository) CountByType(_ context.Context, businessType string) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		for _, b := range s.businesses {
			if b.Type == businessType {
				n++
			}
		}

		return nil
	})

	return n, err
}

func (r *businessRepository) Count(_ context.Context) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		n = int64(len(s.businesses))
		return nil
	})

	return n, err
}

func (r *businessRepository) UpdateAfterCollection(_ context.Context, business *entity.Business, prevLastCollection time.Time) error {
	return r.access(func(s *state) error {
		stored, ok := s.businesses[business.ID]
		if !ok {
			return repository.ErrBusinessNotFound
		}
		if !stored.LastCollection.Equal(prevLastCollection) {
			return repository.ErrStaleWrite
		}

		keep(s, s.businesses, business.ID, copyBusiness)
		stored.Level = business.Level
		stored.XP = business.XP
		stored.LastCollection = business.LastCollection
		stored.TotalIncome = business.TotalIncome
		stored.UpdatedAt = business.UpdatedAt

		return nil
	})
}

func (r *businessRepository) TransferOwner(_ context.Context, id, newOwnerID uuid.UUID) error {
	return r.access(func(s *state) error {
		stored, ok := s.businesses[id]
		if !ok {
			return repository.ErrBusinessNotFound
		}
		keep(s, s.businesses, id, copyBusiness)
		stored.OwnerID = newOwnerID

		return nil
	})
}

func (r *businessRepository) AddConnection(_ context.Context, a, b uuid.UUID) error {
	return r.access(func(s *state) error {
		first, ok := s.businesses[a]
		if !ok {
			return repository.ErrBusinessNotFound
		}
		second, ok := s.businesses[b]
		if !ok {
			return repository.ErrBusinessNotFound
		}
		keep(s, s.businesses, a, copyBusiness)
		keep(s, s.businesses, b, copyBusiness)
		first.Connect(b)
		second.Connect(a)

		return nil
	})
}

func (r *businessRepository) RemoveConnections(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var neighbours []uuid.UUID
	err := r.access(func(s *state) error {
		stored, ok := s.businesses[id]
		if !ok {
			return repository.ErrBusinessNotFound
		}
		neighbours = slices.Clone(stored.ConnectedBusinesses)
		for _, other := range neighbours {
			if n, ok := s.businesses[other]; ok {
				keep(s, s.businesses, other, copyBusiness)
				n.Disconnect(id)
			}
		}
		keep(s, s.businesses, id, copyBusiness)
		stored.ConnectedBusinesses = nil

		return nil
	})

	return neighbours, err
}

func (r *businessRepository) Delete(_ context.Context, id uuid.UUID) error {
	return r.access(func(s *state) error {
		stored, ok := s.businesses[id]
		if !ok {
			return repository.ErrBusinessNotFound
		}
		s.gridRemove(id, stored.X, stored.Y)
		keep(s, s.businesses, id, nil)
		delete(s.businesses, id)

		return nil
	})
}

func sortBusinesses(items []*entity.Business) {
	slices.SortFunc(items, func(a, b *entity.Business) int { return compareIDs(a.ID, b.ID) })
}
