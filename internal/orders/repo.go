package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	"github.com/keystonenotary/dispatch-backend/pkg/pagination"
)

// Repository is the persistence surface for signing orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.SigningOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error)
	FindByIDWithEvents(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error)
	List(ctx context.Context, input ListInput) ([]models.SigningOrder, error)
	All(ctx context.Context) ([]models.SigningOrder, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected enums.OrderStatus, updates map[string]any) (int64, error)
	FlagManualAssignment(ctx context.Context, id uuid.UUID) error
	AppendEvent(ctx context.Context, event *models.OrderEvent) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.SigningOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error) {
	var order models.SigningOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByIDWithEvents(ctx context.Context, id uuid.UUID) (*models.SigningOrder, error) {
	var order models.SigningOrder
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, input ListInput) ([]models.SigningOrder, error) {
	query := r.db.WithContext(ctx).Model(&models.SigningOrder{})

	if input.Status != nil {
		query = query.Where("status = ?", *input.Status)
	}

	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.SigningOrder
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Page.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// All returns the full order set for KPI rollups. Terminal rows are never
// deleted, so this is the complete history.
func (r *repository) All(ctx context.Context) ([]models.SigningOrder, error) {
	var rows []models.SigningOrder
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SigningOrder{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateWhereStatus performs the conditional status write: the updates only
// land when the stored status still equals expected. Returns the number of
// rows touched; zero means the order moved underneath the caller.
func (r *repository) UpdateWhereStatus(ctx context.Context, id uuid.UUID, expected enums.OrderStatus, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SigningOrder{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FlagManualAssignment marks the order for operator attention after an
// assignment attempt found no eligible vendor. Status is left untouched.
func (r *repository) FlagManualAssignment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.SigningOrder{}).
		Where("id = ?", id).
		Update("manual_assignment_flagged", true).Error
}

func (r *repository) AppendEvent(ctx context.Context, event *models.OrderEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}
