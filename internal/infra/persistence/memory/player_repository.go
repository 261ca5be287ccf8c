package memory

import (
	"context"
	"slices"
	"strings"

	"citysim/internal/domain/entity"
	"citysim/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type playerRepository struct {
	access accessor
}

func (r *playerRepository) Create(_ context.Context, player *entity.Player) error {
	return r.access(func(s *state) error {
		if player.ID == uuid.Nil {
			player.ID = uuid.New()
		}
		if _, exists := s.players[player.ID]; exists {
			return repository.ErrDuplicatePlayer
		}
		wallet := strings.ToLower(player.WalletAddress)
		if wallet != "" {
			if _, exists := s.wallets[wallet]; exists {
				return repository.ErrDuplicatePlayer
			}
			keep(s, s.wallets, wallet, nil)
			s.wallets[wallet] = player.ID
		}
		keep(s, s.players, player.ID, nil)
		s.players[player.ID] = copyPlayer(player)

		return nil
	})
}

func (r *playerRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Player, error) {
	var out *entity.Player
	err := r.access(func(s *state) error {
		p, ok := s.players[id]
		if !ok {
			return repository.ErrPlayerNotFound
		}
		out = copyPlayer(p)

		return nil
	})

	return out, err
}

func (r *playerRepository) FindByWallet(_ context.Context, wallet string) (*entity.Player, error) {
	var out *entity.Player
	err := r.access(func(s *state) error {
		id, ok := s.wallets[strings.ToLower(wallet)]
		if !ok {
			return repository.ErrPlayerNotFound
		}
		out = copyPlayer(s.players[id])

		return nil
	})

	return out, err
}

func (r *playerRepository) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.access(func(s *state) error {
		p, ok := s.players[id]
		if !ok {
			return repository.ErrPlayerNotFound
		}
		next := p.Balance.Add(delta)
		if next.IsNegative() {
			return repository.ErrInsufficientBalance
		}
		keep(s, s.players, id, copyPlayer)
		p.Balance = next
		balance = next

		return nil
	})

	return balance, err
}

func (r *playerRepository) AddTurnover(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.access(func(s *state) error {
		p, ok := s.players[id]
		if !ok {
			return repository.ErrPlayerNotFound
		}
		keep(s, s.players, id, copyPlayer)
		p.TotalTurnover = p.TotalTurnover.Add(amount)

		return nil
	})
}

func (r *playerRepository) AddIncome(_ context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.access(func(s *state) error {
		p, ok := s.players[id]
		if !ok {
			return repository.ErrPlayerNotFound
		}
		keep(s, s.players, id, copyPlayer)
		p.TotalIncome = p.TotalIncome.Add(amount)

		return nil
	})
}

func (r *playerRepository) TopByIncome(_ context.Context, limit int) ([]*entity.Player, error) {
	var out []*entity.Player
	err := r.access(func(s *state) error {
		for _, p := range s.players {
			out = append(out, copyPlayer(p))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b *entity.Player) int {
		if c := b.TotalIncome.Cmp(a.TotalIncome); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *playerRepository) SumBalances(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.access(func(s *state) error {
		for _, p := range s.players {
			total = total.Add(p.Balance)
		}

		return nil
	})

	return total, err
}

func (r *playerRepository) List(_ context.Context, limit, offset int) ([]*entity.Player, error) {
	var out []*entity.Player
	err := r.access(func(s *state) error {
		for _, p := range s.players {
			out = append(out, copyPlayer(p))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b *entity.Player) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(a.ID, b.ID)
	})

	return paginate(out, offset, limit), nil
}

func (r *playerRepository) Count(_ context.Context) (int64, error) {
	var n int64
	err := r.access(func(s *state) error {
		n = int64(len(s.players))
		return nil
	})

	return n, err
}
