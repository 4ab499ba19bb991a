package catalog

import (
	"context"
	"errors"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrMaterialNotFound is returned when no material row matches.
var ErrMaterialNotFound = errors.New("note material not found")

// Repository persists note materials.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, material *models.NoteMaterial) error {
	return r.db.WithContext(ctx).Create(material).Error
}

// FindByID loads a material regardless of its status.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.NoteMaterial, error) {
	var material models.NoteMaterial
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMaterialNotFound
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// UpdateColumns writes only the named columns of material.
func (r *Repository) UpdateColumns(ctx context.Context, material *models.NoteMaterial, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(material).Select(columns).Updates(material)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

// UpdateStatus flips visibility with a single-column write.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MaterialStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.NoteMaterial{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.NoteMaterial{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMaterialNotFound
	}
	return nil
}

// ListRecentPublished returns up to limit published materials, newest first.
// The status predicate lives in the query so the page is never under-filled.
func (r *Repository) ListRecentPublished(ctx context.Context, limit int) ([]models.NoteMaterial, error) {
	var rows []models.NoteMaterial
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.MaterialStatusPublished).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// ListAll returns every material, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.NoteMaterial, error) {
	var rows []models.NoteMaterial
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// ListPublishedFor returns the published materials of one subcategory page
// in store order.
func (r *Repository) ListPublishedFor(ctx context.Context, subjectID, subcategoryID string) ([]models.NoteMaterial, error) {
	var rows []models.NoteMaterial
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND subcategory_id = ?", subjectID, subcategoryID).
		Where("status = ?", enums.MaterialStatusPublished).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
