package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
)

// Repository is the read surface over the vendor roster. Reputation writes
// happen in an external process; dispatch only reads.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	// Snapshot returns every vendor commissioned in the given state,
	// regardless of status; eligibility filtering happens in RankCandidates.
	Snapshot(ctx context.Context, commissionState string) ([]models.Vendor, error)
	List(ctx context.Context, status *enums.VendorStatus) ([]models.Vendor, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *repository) Snapshot(ctx context.Context, commissionState string) ([]models.Vendor, error) {
	var rows []models.Vendor
	err := r.db.WithContext(ctx).
		Where("primary_commission_state = ?", commissionState).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) List(ctx context.Context, status *enums.VendorStatus) ([]models.Vendor, error) {
	query := r.db.WithContext(ctx).Model(&models.Vendor{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var rows []models.Vendor
	err := query.
		Order("elite_score DESC, first_pass_funding_rate DESC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
