package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/pagination"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func seedOrder(t *testing.T, repo *Repository, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	noteID := uuid.New()
	order := &models.Order{
		Name:      "Aarav",
		UserClass: "10",
		Items: []types.CartItem{{
			ID:     types.CartItemID(noteID, enums.MaterialTypeTyped),
			NoteID: noteID,
			Type:   enums.MaterialTypeTyped,
			Price:  decimal.NewFromInt(50),
		}},
		Status:        status,
		TotalPrice:    decimal.NewFromInt(50),
		PaymentMethod: enums.PaymentMethodUPI,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	created := seedOrder(t, repo, enums.OrderStatusNew, time.Now().UTC())
	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusNew, found.Status)
	require.Len(t, found.Items, 1)
	assert.True(t, found.TotalPrice.Equal(decimal.NewFromInt(50)))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()

	created := seedOrder(t, repo, enums.OrderStatusNew, time.Now().UTC())
	require.NoError(t, repo.UpdateStatus(ctx, created.ID, enums.OrderStatusCompleted))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, found.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusCompleted), ErrOrderNotFound)
}

func TestRepositoryListFiltersActiveAndPages(t *testing.T) {
	repo := NewRepository(setupOrdersTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	first := seedOrder(t, repo, enums.OrderStatusNew, base)
	seedOrder(t, repo, enums.OrderStatusCompleted, base.Add(time.Minute))
	third := seedOrder(t, repo, enums.OrderStatusNew, base.Add(2*time.Minute))

	active, err := repo.List(ctx, ListQuery{View: enums.OrderViewActive, Limit: 10})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, third.ID, active[0].ID)
	assert.Equal(t, first.ID, active[1].ID)

	all, err := repo.List(ctx, ListQuery{View: enums.OrderViewAll, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := repo.List(ctx, ListQuery{
		View:   enums.OrderViewAll,
		Limit:  10,
		Cursor: &pagination.Cursor{CreatedAt: third.CreatedAt, ID: third.ID},
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, first.ID, page[1].ID)
}
