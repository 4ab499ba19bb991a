package orders

import (
	"context"
	"errors"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no order row matches.
var ErrOrderNotFound = errors.New("order not found")

// ListQuery selects one page of the admin order queue.
type ListQuery struct {
	View   enums.OrderView
	Limit  int
	Cursor *pagination.Cursor
}

// Repository persists storefront orders.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus writes status alone. It reports ErrOrderNotFound when the id
// does not exist.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// List returns up to query.Limit rows newest first. Callers pass a buffered
// limit to detect the next page.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if query.View != enums.OrderViewAll {
		q = q.Where("status <> ?", enums.OrderStatusCompleted)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var rows []models.Order
	err := q.Order("created_at DESC").
		Order("id DESC").
		Limit(query.Limit).
		Find(&rows).Error
	return rows, err
}
