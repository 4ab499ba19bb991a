package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/cache"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefaultImage = "https://example.test/placeholder.png"

type fakeViews struct {
	data        map[string][]byte
	gens        map[string]int64
	invalidated []string
}

func newFakeViews() *fakeViews {
	return &fakeViews{data: map[string][]byte{}, gens: map[string]int64{}}
}

func (f *fakeViews) GetJSON(_ context.Context, view string, dest any) (int64, bool) {
	raw, ok := f.data[view]
	if !ok {
		return f.gens[view], false
	}
	return f.gens[view], json.Unmarshal(raw, dest) == nil
}

func (f *fakeViews) SetJSON(_ context.Context, view string, gen int64, value any) {
	if gen != f.gens[view] {
		return
	}
	raw, err := json.Marshal(value)
	if err == nil {
		f.data[view] = raw
	}
}

func (f *fakeViews) Invalidate(_ context.Context, views ...string) {
	for _, v := range views {
		delete(f.data, v)
		f.gens[v]++
		f.invalidated = append(f.invalidated, v)
	}
}

func newTestService(t *testing.T) (Service, *Repository, *fakeViews) {
	t.Helper()
	repo := NewRepository(setupCatalogTestDB(t))
	views := newFakeViews()
	logg := logger.New(logger.Options{ServiceName: "catalog-test", Level: zerolog.DebugLevel, Output: &bytes.Buffer{}})
	svc, err := NewService(repo, views, logg, testDefaultImage, 0)
	require.NoError(t, err)
	return svc, repo, views
}

func validInput() CreateMaterialInput {
	return CreateMaterialInput{
		SubjectID:     "science",
		SubcategoryID: "physics",
		Chapter:       " Light ",
		Description:   "Reflection and refraction",
		Prices: types.NotePrices{
			Handwritten: &types.PriceInfo{PDF: price("49")},
			Typed:       &types.PriceInfo{},
		},
	}
}

func codeOf(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	require.Error(t, err)
	return pkgerrors.CodeOf(err)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "x", Output: &bytes.Buffer{}})
	_, err := NewService(nil, nil, logg, "", 0)
	assert.Error(t, err)
	_, err = NewService(NewRepository(setupCatalogTestDB(t)), nil, nil, "", 0)
	assert.Error(t, err)
}

func TestCreateMaterialResolvesNamesAndPublishes(t *testing.T) {
	svc, _, views := newTestService(t)

	dto, err := svc.CreateMaterial(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Science", dto.SubjectName)
	assert.Equal(t, "Physics", dto.SubcategoryName)
	assert.Equal(t, "Light", dto.Chapter)
	assert.Equal(t, enums.MaterialStatusPublished, dto.Status)
	assert.Equal(t, testDefaultImage, dto.ImageURL)
	assert.Nil(t, dto.Prices.Typed, "empty price rows are dropped")
	assert.ElementsMatch(t, []string{
		cache.ViewHome,
		cache.ChaptersView("science", "physics"),
		cache.ViewAdminMaterials,
	}, views.invalidated)
}

func TestCreateMaterialValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateMaterialInput)
		field  string
	}{
		{"unknown subject", func(in *CreateMaterialInput) { in.SubjectID = "art" }, "subject_id"},
		{"unknown subcategory", func(in *CreateMaterialInput) { in.SubcategoryID = "grammar" }, "subcategory_id"},
		{"blank chapter", func(in *CreateMaterialInput) { in.Chapter = "   " }, "chapter"},
		{"bad image", func(in *CreateMaterialInput) { in.ImageURL = "not-a-url" }, "image_url"},
		{"negative price", func(in *CreateMaterialInput) {
			in.Prices.Handwritten.Printed = price("-1")
		}, "prices.handwritten.printed"},
		{"no prices", func(in *CreateMaterialInput) { in.Prices = types.NotePrices{} }, "prices"},
		{"sub-cent price", func(in *CreateMaterialInput) {
			in.Prices.Handwritten.PDF = price("0.333")
		}, "prices.handwritten.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.Prices.Handwritten = &types.PriceInfo{PDF: price("49")}
			tt.mutate(&in)
			_, err := svc.CreateMaterial(ctx, in)
			require.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
			details, ok := pkgerrors.As(err).Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
		})
	}
}

func TestListRecentPublishedUsesCacheForDefaultLimit(t *testing.T) {
	svc, repo, views := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMaterial(ctx, validInput())
	require.NoError(t, err)

	first, err := svc.ListRecentPublished(ctx, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Contains(t, views.data, cache.ViewHome)

	// A write that bypasses the service is invisible until invalidation.
	require.NoError(t, repo.UpdateStatus(ctx, created.ID, enums.MaterialStatusHidden))
	cached, err := svc.ListRecentPublished(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	views.Invalidate(ctx, cache.ViewHome)
	fresh, err := svc.ListRecentPublished(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, fresh)

	custom, err := svc.ListRecentPublished(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, custom)
}

func TestListChaptersForGroupsByChapter(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	in := validInput()
	_, err := svc.CreateMaterial(ctx, in)
	require.NoError(t, err)
	in.Chapter = "Electricity"
	_, err = svc.CreateMaterial(ctx, in)
	require.NoError(t, err)
	in.Chapter = "Light"
	in.Description = "Lenses"
	_, err = svc.CreateMaterial(ctx, in)
	require.NoError(t, err)

	page, err := svc.ListChaptersFor(ctx, "science", "physics")
	require.NoError(t, err)
	assert.Equal(t, "Science", page.Subject.Name)
	require.Len(t, page.Chapters, 2)
	assert.Equal(t, "Light", page.Chapters[0].Name)
	assert.Len(t, page.Chapters[0].Materials, 2)
	assert.Equal(t, "Electricity", page.Chapters[1].Name)

	_, err = svc.ListChaptersFor(ctx, "science", "grammar")
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestUpdateMaterialMergesFields(t *testing.T) {
	svc, _, views := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMaterial(ctx, validInput())
	require.NoError(t, err)
	views.invalidated = nil

	chapter := "Human Eye"
	sub := "biology"
	image := "https://cdn.example.test/eye.png"
	updated, err := svc.UpdateMaterial(ctx, created.ID, UpdateMaterialInput{
		Chapter:       &chapter,
		SubcategoryID: &sub,
		ImageURL:      &image,
	})
	require.NoError(t, err)
	assert.Equal(t, "Human Eye", updated.Chapter)
	assert.Equal(t, "Biology", updated.SubcategoryName)
	assert.Equal(t, image, updated.ImageURL)
	assert.Equal(t, created.Description, updated.Description)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Contains(t, views.invalidated, cache.ChaptersView("science", "physics"))
	assert.Contains(t, views.invalidated, cache.ChaptersView("science", "biology"))

	empty := ""
	updated, err = svc.UpdateMaterial(ctx, created.ID, UpdateMaterialInput{ImageURL: &empty})
	require.NoError(t, err)
	assert.Equal(t, testDefaultImage, updated.ImageURL)

	_, err = svc.UpdateMaterial(ctx, uuid.New(), UpdateMaterialInput{Chapter: &chapter})
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	negative := types.NotePrices{Typed: &types.PriceInfo{PDF: price("-5")}}
	_, err = svc.UpdateMaterial(ctx, created.ID, UpdateMaterialInput{Prices: &negative})
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))

	fractional := types.NotePrices{Typed: &types.PriceInfo{Printed: price("19.999")}}
	_, err = svc.UpdateMaterial(ctx, created.ID, UpdateMaterialInput{Prices: &fractional})
	require.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "prices.typed.printed")
}

func TestToggleStatusAndPublicVisibility(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMaterial(ctx, validInput())
	require.NoError(t, err)

	toggled, err := svc.ToggleStatus(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, enums.MaterialStatusHidden, toggled.Status)

	_, err = svc.GetPublishedMaterial(ctx, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	admin, err := svc.GetMaterial(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.MaterialStatusHidden, admin.Status)

	// The caller's view of the status wins over the stored one.
	seen := enums.MaterialStatusHidden
	toggled, err = svc.ToggleStatus(ctx, created.ID, &seen)
	require.NoError(t, err)
	assert.Equal(t, enums.MaterialStatusPublished, toggled.Status)

	bogus := enums.MaterialStatus("archived")
	_, err = svc.ToggleStatus(ctx, created.ID, &bogus)
	assert.Equal(t, pkgerrors.CodeValidation, codeOf(t, err))
}

func TestDeleteMaterial(t *testing.T) {
	svc, _, views := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateMaterial(ctx, validInput())
	require.NoError(t, err)
	views.invalidated = nil

	require.NoError(t, svc.DeleteMaterial(ctx, created.ID))
	assert.Contains(t, views.invalidated, cache.ViewHome)

	err = svc.DeleteMaterial(ctx, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))
}

func TestSubjectsLookup(t *testing.T) {
	svc, _, _ := newTestService(t)

	subjects := svc.ListSubjects()
	require.Len(t, subjects, 4)
	subjects[0].Subcategories[0].Name = "mutated"
	assert.Equal(t, "Physics", svc.ListSubjects()[0].Subcategories[0].Name)

	_, err := svc.GetSubject("art")
	assert.Equal(t, pkgerrors.CodeNotFound, codeOf(t, err))

	sst, err := svc.GetSubject("sst")
	require.NoError(t, err)
	assert.Len(t, sst.Subcategories, 4)
}

func TestCreatedAtIsSetByService(t *testing.T) {
	svc, _, _ := newTestService(t)
	before := time.Now().UTC().Add(-time.Second)
	dto, err := svc.CreateMaterial(context.Background(), validInput())
	require.NoError(t, err)
	assert.True(t, dto.CreatedAt.After(before))
}
