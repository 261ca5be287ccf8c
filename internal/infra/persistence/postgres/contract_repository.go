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

// contractRepository implements the repository.ContractRepository interface.
type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository is the constructor for contractRepository.
func NewContractRepository(db *gorm.DB) repository.ContractRepository {
	return &contractRepository{db: db}
}

// Create persists a new contract offer.
func (repo *contractRepository) Create(ctx context.Context, contract *entity.Contract) error {
	if contract.ID == uuid.Nil {
		contract.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(fromContractDomain(contract)).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create contract")
	}

	return nil
}

// FindByID retrieves a contract by id.
func (repo *contractRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	var contractM model.ContractModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&contractM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrContractNotFound
		}

		return nil, errors.Wrap(err, "failed to find contract by ID")
	}

	return toContractDomain(&contractM), nil
}

// Activate marks a pending contract as accepted.
func (repo *contractRepository) Activate(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ContractModel{}).
		Where("id = ? AND status = ?", id, string(entity.ContractPendingAcceptance)).
		Updates(map[string]any{
			"status":      string(entity.ContractActive),
			"accepted_at": at,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to activate contract")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrStaleWrite
	}

	return nil
}

// ListByPlayer lists contracts where the player is seller or buyer, newest first.
func (repo *contractRepository) ListByPlayer(ctx context.Context, playerID uuid.UUID) ([]*entity.Contract, error) {
	var contractModels []*model.ContractModel

	if err := repo.db.WithContext(ctx).
		Where("seller_id = ? OR buyer_id = ?", playerID, playerID).
		Order("created_at DESC").
		Find(&contractModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list contracts")
	}

	contracts := make([]*entity.Contract, 0, len(contractModels))
	for _, contractM := range contractModels {
		contracts = append(contracts, toContractDomain(contractM))
	}

	return contracts, nil
}

// --- Mapper Functions ---

func toContractDomain(data *model.ContractModel) *entity.Contract {
	if data == nil {
		return nil
	}

	return &entity.Contract{
		ID:               data.ID,
		SellerID:         data.SellerID,
		BuyerID:          data.BuyerID,
		SellerBusinessID: data.SellerBusinessID,
		BuyerBusinessID:  data.BuyerBusinessID,
		ResourceType:     economy.ResourceType(data.ResourceType),
		AmountPerDay:     data.AmountPerDay,
		PricePerUnit:     data.PricePerUnit,
		DurationDays:     data.DurationDays,
		Status:           entity.ContractStatus(data.Status),
		AcceptedAt:       data.AcceptedAt,
		CreatedAt:        data.CreatedAt,
	}
}

func fromContractDomain(data *entity.Contract) *model.ContractModel {
	if data == nil {
		return nil
	}

	return &model.ContractModel{
		ID:               data.ID,
		SellerID:         data.SellerID,
		BuyerID:          data.BuyerID,
		SellerBusinessID: data.SellerBusinessID,
		BuyerBusinessID:  data.BuyerBusinessID,
		ResourceType:     string(data.ResourceType),
		AmountPerDay:     data.AmountPerDay,
		PricePerUnit:     data.PricePerUnit,
		DurationDays:     data.DurationDays,
		Status:           string(data.Status),
		AcceptedAt:       data.AcceptedAt,
		CreatedAt:        data.CreatedAt,
	}
}
