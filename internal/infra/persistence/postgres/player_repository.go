package postgres

import (
	"context"
	"strings"

	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// playerRepository implements the repository.PlayerRepository interface.
type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository is the constructor for playerRepository.
func NewPlayerRepository(db *gorm.DB) repository.PlayerRepository {
	return &playerRepository{db: db}
}

// Create persists a new player.
func (repo *playerRepository) Create(ctx context.Context, player *entity.Player) error {
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	playerM := fromPlayerDomain(player)

	if err := repo.db.WithContext(ctx).Create(playerM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePlayer
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create player")
	}

	player.CreatedAt = playerM.CreatedAt
	player.UpdatedAt = playerM.UpdatedAt

	return nil
}

// FindByID retrieves a player by id.
func (repo *playerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Player, error) {
	var playerM model.PlayerModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&playerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlayerNotFound
		}

		return nil, errors.Wrap(err, "failed to find player by ID")
	}

	return toPlayerDomain(&playerM), nil
}

// FindByWallet retrieves a player by wallet address, ignoring case.
func (repo *playerRepository) FindByWallet(ctx context.Context, wallet string) (*entity.Player, error) {
	var playerM model.PlayerModel

	if err := repo.db.WithContext(ctx).
		Where("wallet_address = ?", strings.ToLower(wallet)).
		First(&playerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlayerNotFound
		}

		return nil, errors.Wrap(err, "failed to find player by wallet")
	}

	return toPlayerDomain(&playerM), nil
}

// AdjustBalance adds delta to the balance in one statement. The row is only
// touched when the result stays non-negative.
func (repo *playerRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	var playerM model.PlayerModel

	result := repo.db.WithContext(ctx).
		Model(&playerM).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "balance"}}}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return decimal.Zero, repository.ErrInsufficientBalance
		}

		return decimal.Zero, domainerrors.NewDatabaseExecuteError(result.Error, "failed to adjust balance")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return decimal.Zero, err
		}

		return decimal.Zero, repository.ErrInsufficientBalance
	}

	return playerM.Balance, nil
}

// AddTurnover increases the lifetime turnover.
func (repo *playerRepository) AddTurnover(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return repo.increment(ctx, id, "total_turnover", amount)
}

// AddIncome increases the lifetime net income.
func (repo *playerRepository) AddIncome(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return repo.increment(ctx, id, "total_income", amount)
}

func (repo *playerRepository) increment(ctx context.Context, id uuid.UUID, column string, amount decimal.Decimal) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PlayerModel{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", amount))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update "+column)
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlayerNotFound
	}

	return nil
}

// TopByIncome lists players by lifetime income, highest first.
func (repo *playerRepository) TopByIncome(ctx context.Context, limit int) ([]*entity.Player, error) {
	var playerModels []*model.PlayerModel

	query := repo.db.WithContext(ctx).Order("total_income DESC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&playerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list players by income")
	}

	players := make([]*entity.Player, 0, len(playerModels))
	for _, playerM := range playerModels {
		players = append(players, toPlayerDomain(playerM))
	}

	return players, nil
}

// SumBalances totals every player balance.
func (repo *playerRepository) SumBalances(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	if err := repo.db.WithContext(ctx).
		Model(&model.PlayerModel{}).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum balances")
	}

	return total, nil
}

// List pages through players in registration order.
func (repo *playerRepository) List(ctx context.Context, limit, offset int) ([]*entity.Player, error) {
	var playerModels []*model.PlayerModel

	query := repo.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&playerModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list players")
	}

	players := make([]*entity.Player, 0, len(playerModels))
	for _, playerM := range playerModels {
		players = append(players, toPlayerDomain(playerM))
	}

	return players, nil
}

// Count returns the number of registered players.
func (repo *playerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).Model(&model.PlayerModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count players")
	}

	return n, nil
}

// --- Mapper Functions ---

func toPlayerDomain(data *model.PlayerModel) *entity.Player {
	if data == nil {
		return nil
	}

	player := &entity.Player{
		ID:            data.ID,
		DisplayName:   data.DisplayName,
		Balance:       data.Balance,
		TotalTurnover: data.TotalTurnover,
		TotalIncome:   data.TotalIncome,
		IsAdmin:       data.IsAdmin,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
	if data.WalletAddress != nil {
		player.WalletAddress = *data.WalletAddress
	}

	return player
}

func fromPlayerDomain(data *entity.Player) *model.PlayerModel {
	if data == nil {
		return nil
	}

	playerM := &model.PlayerModel{
		ID:            data.ID,
		DisplayName:   data.DisplayName,
		Balance:       data.Balance,
		TotalTurnover: data.TotalTurnover,
		TotalIncome:   data.TotalIncome,
		IsAdmin:       data.IsAdmin,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
	if data.WalletAddress != "" {
		wallet := strings.ToLower(data.WalletAddress)
		playerM.WalletAddress = &wallet
	}

	return playerM
}
