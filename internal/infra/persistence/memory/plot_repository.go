package memory

import (
	"context"
	"slices"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
)

type plotRepository struct {
	access accessor
}

func (r *plotRepository) Create(_ context.Context, plot *entity.Plot) error {
	return r.access(func(s *state) error {
		key := [2]int{plot.X, plot.Y}
		if _, exists := s.coords[key]; exists {
			return repository.ErrDuplicatePlot
		}
		if plot.ID == uuid.Nil {
			plot.ID = uuid.New()
		}
		keep(s, s.plots, plot.ID, nil)
		keep(s, s.coords, key, nil)
		s.plots[plot.ID] = copyPlot(plot)
		s.coords[key] = plot.ID

		return nil
	})
}

func (r *plotRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Plot, error) {
	var out *entity.Plot
	err := r.access(func(s *state) error {
		p, ok := s.plots[id]
		if !ok {
			return repository.ErrPlotNotFound
		}
		out = copyPlot(p)

		return nil
	})

	return out, err
}

func (r *plotRepository) FindByCoordinates(_ context.Context, x, y int) (*entity.Plot, error) {
	var out *entity.Plot
	err := r.access(func(s *state) error {
		id, ok := s.coords[[2]int{x, y}]
		if !ok {
			return repository.ErrPlotNotFound
		}
		out = copyPlot(s.plots[id])

		return nil
	})

	return out, err
}

func (r *plotRepository) ClaimAvailable(_ context.Context, plot *entity.Plot, ownerID uuid.UUID) error {
	return r.access(func(s *state) error {
		stored, ok := s.plots[plot.ID]
		if !ok {
			return repository.ErrPlotNotFound
		}
		if !stored.IsAvailable {
			return repository.ErrStaleWrite
		}

		keep(s, s.plots, plot.ID, copyPlot)
		owner := ownerID
		stored.OwnerID = &owner
		stored.IsAvailable = false
		stored.IsResale = false
		stored.PurchasedAt = copyTimePtr(plot.PurchasedAt)
		stored.UpdatedAt = plot.UpdatedAt
		*plot = *copyPlot(stored)

		return nil
	})
}

func (r *plotRepository) Update(_ context.Context, plot *entity.Plot) error {
	return r.access(func(s *state) error {
		stored, ok := s.plots[plot.ID]
		if !ok {
			return repository.ErrPlotNotFound
		}
		updated := copyPlot(plot)
		updated.X, updated.Y, updated.Zone = stored.X, stored.Y, stored.Zone
		updated.BasePrice, updated.CreatedAt = stored.BasePrice, stored.CreatedAt
		keep(s, s.plots, plot.ID, nil)
		s.plots[plot.ID] = updated

		return nil
	})
}

func (r *plotRepository) List(_ context.Context, filter entity.PlotFilter) ([]*entity.Plot, error) {
	var out []*entity.Plot
	err := r.access(func(s *state) error {
		for _, p := range s.plots {
			if matchesPlot(p, filter) {
				out = append(out, copyPlot(p))
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b *entity.Plot) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})

	return paginate(out, filter.Offset, filter.Limit), nil
}

func (r *plotRepository) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		for _, p := range s.plots {
			if p.IsOwnedBy(ownerID) {
				n++
			}
		}

		return nil
	})

	return n, err
}

func (r *plotRepository) CountByOwnerAndZone(_ context.Context, ownerID uuid.UUID, zone economy.Zone) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		for _, p := range s.plots {
			if p.IsOwnedBy(ownerID) && p.Zone == zone {
				n++
			}
		}

		return nil
	})

	return n, err
}

func matchesPlot(p *entity.Plot, f entity.PlotFilter) bool {
	if f.Zone != "" && p.Zone != f.Zone {
		return false
	}
	if f.OwnerID != nil && !p.IsOwnedBy(*f.OwnerID) {
		return false
	}
	if f.AvailableOnly && !p.IsAvailable {
		return false
	}
	if f.ResaleOnly && !p.IsResale {
		return false
	}

	return true
}

func (r *plotRepository) CountOwned(_ context.Context) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		for _, p := range s.plots {
			if p.OwnerID != nil {
				n++
			}
		}

		return nil
	})

	return n, err
}
