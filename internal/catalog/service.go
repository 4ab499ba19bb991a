package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/cache"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/validation"
	"github.com/google/uuid"
)

const (
	DefaultRecentLimit = 8
	MaxRecentLimit     = 50
)

// Service exposes catalog reads for the storefront and writes for the admin.
type Service interface {
	ListSubjects() []Subject
	GetSubject(id string) (Subject, error)
	GetSubcategory(subjectID, subcategoryID string) (Subject, SubCategory, error)
	ListRecentPublished(ctx context.Context, limit int) ([]MaterialDTO, error)
	ListChaptersFor(ctx context.Context, subjectID, subcategoryID string) (*ChapterPage, error)
	GetPublishedMaterial(ctx context.Context, id uuid.UUID) (*MaterialDTO, error)

	ListAllMaterials(ctx context.Context) ([]MaterialDTO, error)
	GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialDTO, error)
	CreateMaterial(ctx context.Context, input CreateMaterialInput) (*MaterialDTO, error)
	UpdateMaterial(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error)
	ToggleStatus(ctx context.Context, id uuid.UUID, current *enums.MaterialStatus) (*MaterialDTO, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
}

// CreateMaterialInput holds the admin form for a new material.
type CreateMaterialInput struct {
	SubjectID     string           `json:"subject_id" validate:"required"`
	SubcategoryID string           `json:"subcategory_id" validate:"required"`
	Chapter       string           `json:"chapter" validate:"required,max=200"`
	Description   string           `json:"description" validate:"required,max=2000"`
	ImageURL      string           `json:"image_url" validate:"omitempty,url"`
	Prices        types.NotePrices `json:"prices"`
}

// UpdateMaterialInput carries optional field replacements. An empty image_url
// clears the image so the placeholder is served.
type UpdateMaterialInput struct {
	SubjectID     *string           `json:"subject_id" validate:"omitempty,min=1"`
	SubcategoryID *string           `json:"subcategory_id" validate:"omitempty,min=1"`
	Chapter       *string           `json:"chapter" validate:"omitempty,min=1,max=200"`
	Description   *string           `json:"description" validate:"omitempty,min=1,max=2000"`
	ImageURL      *string           `json:"image_url" validate:"omitempty"`
	Prices        *types.NotePrices `json:"prices"`
}

type materialStore interface {
	Create(ctx context.Context, material *models.NoteMaterial) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.NoteMaterial, error)
	UpdateColumns(ctx context.Context, material *models.NoteMaterial, columns ...string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MaterialStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListRecentPublished(ctx context.Context, limit int) ([]models.NoteMaterial, error)
	ListAll(ctx context.Context) ([]models.NoteMaterial, error)
	ListPublishedFor(ctx context.Context, subjectID, subcategoryID string) ([]models.NoteMaterial, error)
}

type service struct {
	repo         materialStore
	views        cache.Views
	logg         *logger.Logger
	defaultImage string
	recentLimit  int
	now          func() time.Time
}

// NewService constructs the catalog service. views may be nil, in which case
// nothing is cached and invalidation is a no-op.
func NewService(repo materialStore, views cache.Views, logg *logger.Logger, defaultImage string, recentLimit int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("material repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if views == nil {
		views = cache.Nop{}
	}
	if recentLimit <= 0 || recentLimit > MaxRecentLimit {
		recentLimit = DefaultRecentLimit
	}
	return &service{
		repo:         repo,
		views:        views,
		logg:         logg,
		defaultImage: defaultImage,
		recentLimit:  recentLimit,
		now:          time.Now,
	}, nil
}

func (s *service) ListSubjects() []Subject {
	return Subjects()
}

func (s *service) GetSubject(id string) (Subject, error) {
	subject, ok := FindSubject(id)
	if !ok {
		return Subject{}, pkgerrors.New(pkgerrors.CodeNotFound, "subject not found")
	}
	return subject, nil
}

func (s *service) GetSubcategory(subjectID, subcategoryID string) (Subject, SubCategory, error) {
	subject, sub, ok := FindSubcategory(subjectID, subcategoryID)
	if !ok {
		return Subject{}, SubCategory{}, pkgerrors.New(pkgerrors.CodeNotFound, "subcategory not found")
	}
	return subject, sub, nil
}

func (s *service) ListRecentPublished(ctx context.Context, limit int) ([]MaterialDTO, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	cacheable := limit == s.recentLimit
	gen := cache.NoGeneration
	if cacheable {
		var cached []MaterialDTO
		var hit bool
		if gen, hit = s.views.GetJSON(ctx, cache.ViewHome, &cached); hit {
			return cached, nil
		}
	}

	rows, err := s.repo.ListRecentPublished(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list recent notes")
	}
	out := toMaterialDTOs(rows, s.defaultImage)
	if cacheable {
		s.views.SetJSON(ctx, cache.ViewHome, gen, out)
	}
	return out, nil
}

func (s *service) ListChaptersFor(ctx context.Context, subjectID, subcategoryID string) (*ChapterPage, error) {
	subject, sub, ok := FindSubcategory(subjectID, subcategoryID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subject or subcategory not found")
	}

	view := cache.ChaptersView(subjectID, subcategoryID)
	var cached ChapterPage
	gen, hit := s.views.GetJSON(ctx, view, &cached)
	if hit {
		return &cached, nil
	}

	rows, err := s.repo.ListPublishedFor(ctx, subjectID, subcategoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list chapters")
	}
	page := &ChapterPage{
		Subject:     subject,
		Subcategory: sub,
		Chapters:    groupChapters(toMaterialDTOs(rows, s.defaultImage)),
	}
	s.views.SetJSON(ctx, view, gen, page)
	return page, nil
}

// GetPublishedMaterial treats hidden materials as missing.
func (s *service) GetPublishedMaterial(ctx context.Context, id uuid.UUID) (*MaterialDTO, error) {
	material, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if material.Status != enums.MaterialStatusPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "note not found")
	}
	dto := toMaterialDTO(*material, s.defaultImage)
	return &dto, nil
}

func (s *service) ListAllMaterials(ctx context.Context) ([]MaterialDTO, error) {
	var cached []MaterialDTO
	gen, hit := s.views.GetJSON(ctx, cache.ViewAdminMaterials, &cached)
	if hit {
		return cached, nil
	}
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "list notes")
	}
	out := toMaterialDTOs(rows, s.defaultImage)
	s.views.SetJSON(ctx, cache.ViewAdminMaterials, gen, out)
	return out, nil
}

func (s *service) GetMaterial(ctx context.Context, id uuid.UUID) (*MaterialDTO, error) {
	material, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toMaterialDTO(*material, s.defaultImage)
	return &dto, nil
}

// CreateMaterial validates the form, resolves display names from the subject
// table and stores the material as published.
func (s *service) CreateMaterial(ctx context.Context, input CreateMaterialInput) (*MaterialDTO, error) {
	input.SubjectID = strings.TrimSpace(input.SubjectID)
	input.SubcategoryID = strings.TrimSpace(input.SubcategoryID)
	input.Chapter = strings.TrimSpace(input.Chapter)
	input.Description = strings.TrimSpace(input.Description)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	if err := validatePrices(input.Prices); err != nil {
		return nil, err
	}
	subject, sub, err := resolvePair(input.SubjectID, input.SubcategoryID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	material := &models.NoteMaterial{
		SubjectID:       subject.ID,
		SubjectName:     subject.Name,
		SubcategoryID:   sub.ID,
		SubcategoryName: sub.Name,
		Chapter:         input.Chapter,
		Description:     input.Description,
		Status:          enums.MaterialStatusPublished,
		Prices:          input.Prices.Compact(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.ImageURL != "" {
		material.ImageURL = &input.ImageURL
	}

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "create note")
	}

	s.views.Invalidate(s.logg.WithMaterialID(ctx, material.ID.String()), writeViews(material.SubjectID, material.SubcategoryID)...)

	dto := toMaterialDTO(*material, s.defaultImage)
	return &dto, nil
}

// UpdateMaterial merges the supplied fields. created_at never changes.
func (s *service) UpdateMaterial(ctx context.Context, id uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error) {
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}
	material, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSubject, oldSub := material.SubjectID, material.SubcategoryID

	columns := []string{}
	if input.SubjectID != nil || input.SubcategoryID != nil {
		subjectID, subID := material.SubjectID, material.SubcategoryID
		if input.SubjectID != nil {
			subjectID = strings.TrimSpace(*input.SubjectID)
		}
		if input.SubcategoryID != nil {
			subID = strings.TrimSpace(*input.SubcategoryID)
		}
		subject, sub, err := resolvePair(subjectID, subID)
		if err != nil {
			return nil, err
		}
		material.SubjectID, material.SubjectName = subject.ID, subject.Name
		material.SubcategoryID, material.SubcategoryName = sub.ID, sub.Name
		columns = append(columns, "subject_id", "subject_name", "subcategory_id", "subcategory_name")
	}
	if input.Chapter != nil {
		chapter := strings.TrimSpace(*input.Chapter)
		if chapter == "" {
			return nil, pkgerrors.Field("chapter", "is required")
		}
		material.Chapter = chapter
		columns = append(columns, "chapter")
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, pkgerrors.Field("description", "is required")
		}
		material.Description = description
		columns = append(columns, "description")
	}
	if input.ImageURL != nil {
		image := strings.TrimSpace(*input.ImageURL)
		if image == "" {
			material.ImageURL = nil
		} else {
			if err := validation.Var("image_url", image, "url"); err != nil {
				return nil, err
			}
			material.ImageURL = &image
		}
		columns = append(columns, "image_url")
	}
	if input.Prices != nil {
		if err := validatePrices(*input.Prices); err != nil {
			return nil, err
		}
		material.Prices = input.Prices.Compact()
		columns = append(columns, "prices")
	}

	if len(columns) == 0 {
		dto := toMaterialDTO(*material, s.defaultImage)
		return &dto, nil
	}

	material.UpdatedAt = s.now().UTC()
	columns = append(columns, "updated_at")
	if err := s.repo.UpdateColumns(ctx, material, columns...); err != nil {
		return nil, s.storeError(err, "update note")
	}

	views := writeViews(material.SubjectID, material.SubcategoryID)
	if oldSubject != material.SubjectID || oldSub != material.SubcategoryID {
		views = append(views, cache.ChaptersView(oldSubject, oldSub))
	}
	s.views.Invalidate(s.logg.WithMaterialID(ctx, id.String()), views...)

	dto := toMaterialDTO(*material, s.defaultImage)
	return &dto, nil
}

// ToggleStatus flips visibility relative to current, or to the stored status
// when the caller does not say what it saw.
func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID, current *enums.MaterialStatus) (*MaterialDTO, error) {
	if current != nil && !current.IsValid() {
		return nil, pkgerrors.Field("current_status", "must be one of published, hidden")
	}
	material, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	base := material.Status
	if current != nil {
		base = *current
	}
	next := base.Toggled()

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, s.storeError(err, "update note status")
	}
	material.Status = next

	s.views.Invalidate(s.logg.WithMaterialID(ctx, id.String()), writeViews(material.SubjectID, material.SubcategoryID)...)

	dto := toMaterialDTO(*material, s.defaultImage)
	return &dto, nil
}

func (s *service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	material, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError(err, "delete note")
	}
	s.views.Invalidate(s.logg.WithMaterialID(ctx, id.String()), writeViews(material.SubjectID, material.SubcategoryID)...)
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.NoteMaterial, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.storeError(err, "load note")
	}
	return material, nil
}

func (s *service) storeError(err error, action string) error {
	if errors.Is(err, ErrMaterialNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "note not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeStorage, err, action)
}

// writeViews lists the views a material write makes stale.
func writeViews(subjectID, subcategoryID string) []string {
	return []string{
		cache.ViewHome,
		cache.ChaptersView(subjectID, subcategoryID),
		cache.ViewAdminMaterials,
	}
}

func resolvePair(subjectID, subcategoryID string) (Subject, SubCategory, error) {
	subject, sub, ok := FindSubcategory(subjectID, subcategoryID)
	if ok {
		return subject, sub, nil
	}
	if subject.ID == "" {
		return Subject{}, SubCategory{}, pkgerrors.Field("subject_id", "unknown subject")
	}
	return Subject{}, SubCategory{}, pkgerrors.Field("subcategory_id", "unknown subcategory for subject")
}

func validatePrices(prices types.NotePrices) error {
	if path, negative := prices.Negative(); negative {
		return pkgerrors.Field(path, "must be at least 0")
	}
	if path, fractional := prices.SubCent(); fractional {
		return pkgerrors.Field(path, "must have at most 2 decimal places")
	}
	if !prices.HasAny() {
		return pkgerrors.Field("prices", "at least one price is required")
	}
	return nil
}
