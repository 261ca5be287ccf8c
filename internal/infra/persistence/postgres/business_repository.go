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
	"gorm.io/gorm/clause"
)

// businessRepository implements the repository.BusinessRepository interface.
// Connections live in their own table and are preloaded with each business.
type businessRepository struct {
	db *gorm.DB
}

// NewBusinessRepository is the constructor for businessRepository.
func NewBusinessRepository(db *gorm.DB) repository.BusinessRepository {
	return &businessRepository{db: db}
}

// Create persists a business together with its connection rows.
func (repo *businessRepository) Create(ctx context.Context, business *entity.Business) error {
	if business.ID == uuid.Nil {
		business.ID = uuid.New()
	}
	business.NormalizeConnections()
	businessM := fromBusinessDomain(business)

	if err := repo.db.WithContext(ctx).Omit("Connections").Create(businessM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) || isUniqueConstraintViolation(err) {
			return domainerrors.ErrPlotOccupied.WrapMessage("plot already has a business")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create business")
	}

	for _, other := range business.ConnectedBusinesses {
		if err := repo.AddConnection(ctx, business.ID, other); err != nil {
			return err
		}
	}

	business.CreatedAt = businessM.CreatedAt
	business.UpdatedAt = businessM.UpdatedAt

	return nil
}

// FindByID retrieves a business by id.
func (repo *businessRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	var businessM model.BusinessModel

	if err := repo.preloaded(ctx).Where("id = ?", id).First(&businessM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBusinessNotFound
		}

		return nil, errors.Wrap(err, "failed to find business by ID")
	}

	return toBusinessDomain(&businessM), nil
}

// FindByOwner lists a player's businesses.
func (repo *businessRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Business, error) {
	return repo.find(ctx, repo.preloaded(ctx).Where("owner_id = ?", ownerID).Order("id ASC"))
}

// FindActiveWithin lists active businesses inside the window, bounds included.
func (repo *businessRepository) FindActiveWithin(ctx context.Context, w economy.Window) ([]*entity.Business, error) {
	return repo.find(ctx, repo.preloaded(ctx).
		Where("is_active = ?", true).
		Where("x BETWEEN ? AND ?", w.MinX, w.MaxX).
		Where("y BETWEEN ? AND ?", w.MinY, w.MaxY).
		Order("id ASC"))
}

// ListActive pages through active businesses by id.
func (repo *businessRepository) ListActive(ctx context.Context, after uuid.UUID, limit int) ([]*entity.Business, error) {
	query := repo.preloaded(ctx).
		Where("is_active = ? AND id > ?", true, after).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	return repo.find(ctx, query)
}

func (repo *businessRepository) preloaded(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Preload("Connections", func(db *gorm.DB) *gorm.DB {
		return db.Order("connected_id ASC")
	})
}

func (repo *businessRepository) find(_ context.Context, query *gorm.DB) ([]*entity.Business, error) {
	var businessModels []*model.BusinessModel

	if err := query.Find(&businessModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list businesses")
	}

	businesses := make([]*entity.Business, 0, len(businessModels))
	for _, businessM := range businessModels {
		businesses = append(businesses, toBusinessDomain(businessM))
	}

	return businesses, nil
}

// CountByOwnerAndType counts a player's businesses of one type.
func (repo *businessRepository) CountByOwnerAndType(ctx context.Context, ownerID uuid.UUID, businessType string) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).
		Model(&model.BusinessModel{}).
		Where("owner_id = ? AND type = ?", ownerID, businessType).
		Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count businesses by owner")
	}

	return n, nil
}

// CountByType counts businesses of one type across all players.
func (repo *businessRepository) CountByType(ctx context.Context, businessType string) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).
		Model(&model.BusinessModel{}).
		Where("type = ?", businessType).
		Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count businesses by type")
	}

	return n, nil
}

// Count counts every business on the map.
func (repo *businessRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).Model(&model.BusinessModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count businesses")
	}

	return n, nil
}

// UpdateAfterCollection stores the result of a collection, provided nobody
// collected since prevLastCollection was read.
func (repo *businessRepository) UpdateAfterCollection(ctx context.Context, business *entity.Business, prevLastCollection time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.BusinessModel{}).
		Where("id = ? AND last_collection = ?", business.ID, prevLastCollection).
		Updates(map[string]any{
			"level":           business.Level,
			"xp":              business.XP,
			"last_collection": business.LastCollection,
			"total_income":    business.TotalIncome,
			"updated_at":      business.UpdatedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update business after collection")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, business.ID); err != nil {
			return err
		}

		return repository.ErrStaleWrite
	}

	return nil
}

// TransferOwner moves a business to a new owner.
func (repo *businessRepository) TransferOwner(ctx context.Context, id, newOwnerID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.BusinessModel{}).
		Where("id = ?", id).
		Update("owner_id", newOwnerID)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to transfer business")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBusinessNotFound
	}

	return nil
}

// AddConnection links a and b in both directions. Existing links are kept.
func (repo *businessRepository) AddConnection(ctx context.Context, a, b uuid.UUID) error {
	rows := []model.BusinessConnectionModel{
		{BusinessID: a, ConnectedID: b},
		{BusinessID: b, ConnectedID: a},
	}

	if err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrBusinessNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to connect businesses")
	}

	return nil
}

// RemoveConnections drops every link touching id and returns the former neighbours.
func (repo *businessRepository) RemoveConnections(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var neighbours []uuid.UUID

	if err := repo.db.WithContext(ctx).
		Model(&model.BusinessConnectionModel{}).
		Where("business_id = ?", id).
		Order("connected_id ASC").
		Pluck("connected_id", &neighbours).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load connections")
	}

	if err := repo.db.WithContext(ctx).
		Where("business_id = ? OR connected_id = ?", id, id).
		Delete(&model.BusinessConnectionModel{}).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to remove connections")
	}

	return neighbours, nil
}

// Delete removes a business.
func (repo *businessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Select(clause.Associations).
		Where("id = ?", id).
		Delete(&model.BusinessModel{ID: id})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete business")
	}

	if result.RowsAffected == 0 {
		return repository.ErrBusinessNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toBusinessDomain(data *model.BusinessModel) *entity.Business {
	if data == nil {
		return nil
	}

	connected := make([]uuid.UUID, 0, len(data.Connections))
	for _, c := range data.Connections {
		connected = append(connected, c.ConnectedID)
	}

	business := &entity.Business{
		ID:                  data.ID,
		PlotID:              data.PlotID,
		OwnerID:             data.OwnerID,
		Type:                data.Type,
		X:                   data.X,
		Y:                   data.Y,
		Zone:                economy.Zone(data.Zone),
		Level:               data.Level,
		XP:                  data.XP,
		ConnectedBusinesses: connected,
		LastCollection:      data.LastCollection,
		BuildingProgress:    data.BuildingProgress,
		IsActive:            data.IsActive,
		Investment:          data.Investment,
		TotalIncome:         data.TotalIncome,
		SchemaVersion:       data.SchemaVersion,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
	business.NormalizeConnections()

	return business
}

func fromBusinessDomain(data *entity.Business) *model.BusinessModel {
	if data == nil {
		return nil
	}

	return &model.BusinessModel{
		ID:               data.ID,
		PlotID:           data.PlotID,
		OwnerID:          data.OwnerID,
		Type:             data.Type,
		X:                data.X,
		Y:                data.Y,
		Zone:             string(data.Zone),
		Level:            data.Level,
		XP:               data.XP,
		LastCollection:   data.LastCollection,
		BuildingProgress: data.BuildingProgress,
		IsActive:         data.IsActive,
		Investment:       data.Investment,
		TotalIncome:      data.TotalIncome,
		SchemaVersion:    data.SchemaVersion,
		CreatedAt:        data.CreatedAt,
		UpdatedAt:        data.UpdatedAt,
	}
}
