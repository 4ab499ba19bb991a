package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
)

// NoteMaterial is one chapter's purchasable study material.
type NoteMaterial struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	SubjectID       string               `gorm:"column:subject_id;not null;index:idx_note_materials_page,priority:1"`
	SubjectName     string               `gorm:"column:subject_name;not null"`
	SubcategoryID   string               `gorm:"column:subcategory_id;not null;index:idx_note_materials_page,priority:2"`
	SubcategoryName string               `gorm:"column:subcategory_name;not null"`
	Chapter         string               `gorm:"column:chapter;not null"`
	Description     string               `gorm:"column:description;not null"`
	ImageURL        *string              `gorm:"column:image_url"`
	Status          enums.MaterialStatus `gorm:"column:status;type:text;not null;default:'published'"`
	Prices          types.NotePrices     `gorm:"column:prices;type:jsonb;serializer:json"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (NoteMaterial) TableName() string { return "note_materials" }

func (m *NoteMaterial) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
