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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ledgerRepository implements the repository.LedgerRepository interface.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository is the constructor for ledgerRepository.
func NewLedgerRepository(db *gorm.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Create appends a ledger record. External references are unique.
func (repo *ledgerRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(fromTransactionDomain(tx)).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateExternalRef
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to record transaction")
	}

	return nil
}

// FindByID retrieves a ledger record by id.
func (repo *ledgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return repo.first(ctx, "id = ?", id)
}

// FindByExternalRef retrieves the record carrying an on-chain reference.
func (repo *ledgerRepository) FindByExternalRef(ctx context.Context, ref string) (*entity.Transaction, error) {
	return repo.first(ctx, "external_ref = ?", ref)
}

func (repo *ledgerRepository) first(ctx context.Context, where string, args ...any) (*entity.Transaction, error) {
	var txM model.TransactionModel

	if err := repo.db.WithContext(ctx).Where(where, args...).First(&txM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTransactionNotFound
		}

		return nil, errors.Wrap(err, "failed to find transaction")
	}

	return toTransactionDomain(&txM), nil
}

// List returns records matching filter, newest first.
func (repo *ledgerRepository) List(ctx context.Context, filter entity.TransactionFilter) ([]*entity.Transaction, error) {
	var txModels []*model.TransactionModel

	query := repo.filtered(ctx, filter)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Order("created_at DESC").Order("id DESC").Find(&txModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}

	txs := make([]*entity.Transaction, 0, len(txModels))
	for _, txM := range txModels {
		txs = append(txs, toTransactionDomain(txM))
	}

	return txs, nil
}

// Count returns how many records match filter, ignoring paging.
func (repo *ledgerRepository) Count(ctx context.Context, filter entity.TransactionFilter) (int64, error) {
	var n int64
	if err := repo.filtered(ctx, filter).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count transactions")
	}

	return n, nil
}

func (repo *ledgerRepository) filtered(ctx context.Context, filter entity.TransactionFilter) *gorm.DB {
	query := repo.db.WithContext(ctx).Model(&model.TransactionModel{})
	if filter.PlayerID != nil {
		query = query.Where("(from_player_id = ? OR to_player_id = ?)", *filter.PlayerID, *filter.PlayerID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	return query
}

// SumCompleted totals the amount of every completed record.
func (repo *ledgerRepository) SumCompleted(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	if err := repo.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", string(entity.TxStatusCompleted)).
		Scan(&total).Error; err != nil {
		return decimal.Zero, errors.Wrap(err, "failed to sum completed transactions")
	}

	return total, nil
}

// UpdateStatus moves a record from one status to another. It fails with
// ErrStaleWrite when the record is no longer in status from.
func (repo *ledgerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.TransactionStatus, at time.Time) error {
	result := repo.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":       string(to),
			"completed_at": at,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update transaction status")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrStaleWrite
	}

	return nil
}

type pendingSum struct {
	Total decimal.Decimal
	Count int64
}

// SumPending totals the pending records of one type.
func (repo *ledgerRepository) SumPending(ctx context.Context, txType entity.TransactionType) (decimal.Decimal, int64, error) {
	var row pendingSum

	if err := repo.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("type = ? AND status = ?", string(txType), string(entity.TxStatusPending)).
		Scan(&row).Error; err != nil {
		return decimal.Zero, 0, errors.Wrap(err, "failed to sum pending transactions")
	}

	return row.Total, row.Count, nil
}

// FirstCreatedAt returns the time of the oldest record, or nil for an empty ledger.
func (repo *ledgerRepository) FirstCreatedAt(ctx context.Context) (*time.Time, error) {
	var first *time.Time

	if err := repo.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("MIN(created_at)").
		Scan(&first).Error; err != nil {
		return nil, errors.Wrap(err, "failed to read first transaction time")
	}

	return first, nil
}

// --- Mapper Functions ---

func toTransactionDomain(data *model.TransactionModel) *entity.Transaction {
	if data == nil {
		return nil
	}

	tx := &entity.Transaction{
		ID:             data.ID,
		Type:           entity.TransactionType(data.Type),
		FromPlayerID:   data.FromPlayerID,
		ToPlayerID:     data.ToPlayerID,
		ToAddress:      data.ToAddress,
		Amount:         data.Amount,
		Commission:     data.Commission,
		Tax:            data.Tax,
		Net:            data.Net,
		PlotID:         data.PlotID,
		BusinessID:     data.BusinessID,
		ResourceType:   economy.ResourceType(data.ResourceType),
		ResourceAmount: data.ResourceAmount,
		Status:         entity.TransactionStatus(data.Status),
		CreatedAt:      data.CreatedAt,
		CompletedAt:    data.CompletedAt,
	}
	if data.ExternalRef != nil {
		tx.ExternalRef = *data.ExternalRef
	}

	return tx
}

func fromTransactionDomain(data *entity.Transaction) *model.TransactionModel {
	if data == nil {
		return nil
	}

	txM := &model.TransactionModel{
		ID:             data.ID,
		Type:           string(data.Type),
		FromPlayerID:   data.FromPlayerID,
		ToPlayerID:     data.ToPlayerID,
		ToAddress:      data.ToAddress,
		Amount:         data.Amount,
		Commission:     data.Commission,
		Tax:            data.Tax,
		Net:            data.Net,
		PlotID:         data.PlotID,
		BusinessID:     data.BusinessID,
		ResourceType:   string(data.ResourceType),
		ResourceAmount: data.ResourceAmount,
		Status:         string(data.Status),
		CreatedAt:      data.CreatedAt,
		CompletedAt:    data.CompletedAt,
	}
	if data.ExternalRef != "" {
		ref := data.ExternalRef
		txM.ExternalRef = &ref
	}

	return txM
}
