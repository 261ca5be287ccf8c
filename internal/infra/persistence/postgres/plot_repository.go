package postgres

import (
	"context"
	"time"

	"citysim/internal/domain/economy"
	"citysim/internal/domain/entity"
	domainerrors "citysim/internal/domain/errors"
	"citysim/internal/domain/repository"
	"citysim/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// plotRepository implements the repository.PlotRepository interface.
type plotRepository struct {
	db *gorm.DB
}

// NewPlotRepository is the constructor for plotRepository.
func NewPlotRepository(db *gorm.DB) repository.PlotRepository {
	return &plotRepository{db: db}
}

// Create persists a new tile. The (x, y) pair is unique.
func (repo *plotRepository) Create(ctx context.Context, plot *entity.Plot) error {
	if plot.ID == uuid.Nil {
		plot.ID = uuid.New()
	}
	plotM := fromPlotDomain(plot)

	if err := repo.db.WithContext(ctx).Create(plotM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicatePlot
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create plot")
	}

	plot.CreatedAt = plotM.CreatedAt
	plot.UpdatedAt = plotM.UpdatedAt

	return nil
}

// FindByID retrieves a plot by id.
func (repo *plotRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Plot, error) {
	return repo.first(ctx, "id = ?", id)
}

// FindByCoordinates retrieves the plot at (x, y).
func (repo *plotRepository) FindByCoordinates(ctx context.Context, x, y int) (*entity.Plot, error) {
	return repo.first(ctx, "x = ? AND y = ?", x, y)
}

func (repo *plotRepository) first(ctx context.Context, where string, args ...any) (*entity.Plot, error) {
	var plotM model.PlotModel

	if err := repo.db.WithContext(ctx).Where(where, args...).First(&plotM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlotNotFound
		}

		return nil, errors.Wrap(err, "failed to find plot")
	}

	return toPlotDomain(&plotM), nil
}

// ClaimAvailable transfers an available plot to ownerID. It fails with
// ErrStaleWrite when someone else claimed it first.
func (repo *plotRepository) ClaimAvailable(ctx context.Context, plot *entity.Plot, ownerID uuid.UUID) error {
	now := plot.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}

	result := repo.db.WithContext(ctx).
		Model(&model.PlotModel{}).
		Where("id = ? AND is_available = ?", plot.ID, true).
		Updates(map[string]any{
			"owner_id":     ownerID,
			"is_available": false,
			"is_resale":    false,
			"purchased_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to claim plot")
	}

	if result.RowsAffected == 0 {
		return repository.ErrStaleWrite
	}

	owner := ownerID
	plot.OwnerID = &owner
	plot.IsAvailable = false
	plot.IsResale = false
	plot.PurchasedAt = &now
	plot.UpdatedAt = now

	return nil
}

// Update writes the mutable fields of a plot.
func (repo *plotRepository) Update(ctx context.Context, plot *entity.Plot) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PlotModel{}).
		Where("id = ?", plot.ID).
		Updates(map[string]any{
			"price":        plot.Price,
			"owner_id":     plot.OwnerID,
			"business_id":  plot.BusinessID,
			"is_available": plot.IsAvailable,
			"is_resale":    plot.IsResale,
			"purchased_at": plot.PurchasedAt,
			"updated_at":   plot.UpdatedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update plot")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPlotNotFound
	}

	return nil
}

// List returns plots matching filter ordered by row, then column.
func (repo *plotRepository) List(ctx context.Context, filter entity.PlotFilter) ([]*entity.Plot, error) {
	var plotModels []*model.PlotModel

	query := repo.db.WithContext(ctx).Model(&model.PlotModel{})
	if filter.Zone != "" {
		query = query.Where("zone = ?", string(filter.Zone))
	}
	if filter.OwnerID != nil {
		query = query.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}
	if filter.ResaleOnly {
		query = query.Where("is_resale = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Order("y ASC").Order("x ASC").Find(&plotModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list plots")
	}

	plots := make([]*entity.Plot, 0, len(plotModels))
	for _, plotM := range plotModels {
		plots = append(plots, toPlotDomain(plotM))
	}

	return plots, nil
}

// CountByOwner counts the plots a player owns.
func (repo *plotRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PlotModel{}).
		Where("owner_id = ?", ownerID).
		Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count plots")
	}

	return n, nil
}

// CountByOwnerAndZone counts the plots a player owns in one zone.
func (repo *plotRepository) CountByOwnerAndZone(ctx context.Context, ownerID uuid.UUID, zone economy.Zone) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PlotModel{}).
		Where("owner_id = ? AND zone = ?", ownerID, string(zone)).
		Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count plots by zone")
	}

	return n, nil
}

// CountOwned counts plots that have an owner.
func (repo *plotRepository) CountOwned(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).
		Model(&model.PlotModel{}).
		Where("owner_id IS NOT NULL").
		Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count owned plots")
	}

	return n, nil
}

// --- Mapper Functions ---

func toPlotDomain(data *model.PlotModel) *entity.Plot {
	if data == nil {
		return nil
	}

	return &entity.Plot{
		ID:          data.ID,
		X:           data.X,
		Y:           data.Y,
		Zone:        economy.Zone(data.Zone),
		BasePrice:   data.BasePrice,
		Price:       data.Price,
		OwnerID:     data.OwnerID,
		BusinessID:  data.BusinessID,
		IsAvailable: data.IsAvailable,
		IsResale:    data.IsResale,
		PurchasedAt: data.PurchasedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromPlotDomain(data *entity.Plot) *model.PlotModel {
	if data == nil {
		return nil
	}

	return &model.PlotModel{
		ID:          data.ID,
		X:           data.X,
		Y:           data.Y,
		Zone:        string(data.Zone),
		BasePrice:   data.BasePrice,
		Price:       data.Price,
		OwnerID:     data.OwnerID,
		BusinessID:  data.BusinessID,
		IsAvailable: data.IsAvailable,
		IsResale:    data.IsResale,
		PurchasedAt: data.PurchasedAt,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
