// Package settings stores operator configuration documents keyed by name.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyAdmin names the document holding the admin passphrase.
const KeyAdmin = "admin"

// AdminDocument is the value stored under KeyAdmin.
type AdminDocument struct {
	Passphrase string `json:"passphrase"`
}

// Repository reads and writes the settings table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AdminPassphrase returns the stored passphrase. ok is false when the document
// is missing, unreadable or holds an empty passphrase.
func (r *Repository) AdminPassphrase(ctx context.Context) (string, bool, error) {
	var row models.Setting
	err := r.db.WithContext(ctx).Where("key = ?", KeyAdmin).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var doc AdminDocument
	if err := json.Unmarshal([]byte(row.Value), &doc); err != nil {
		return "", false, fmt.Errorf("decode admin settings: %w", err)
	}
	passphrase := strings.TrimSpace(doc.Passphrase)
	return passphrase, passphrase != "", nil
}

// SetAdminPassphrase upserts the admin document. The value is stored as given,
// so callers hash it first when they want it hashed.
func (r *Repository) SetAdminPassphrase(ctx context.Context, passphrase string) error {
	if strings.TrimSpace(passphrase) == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}
	payload, err := json.Marshal(AdminDocument{Passphrase: passphrase})
	if err != nil {
		return fmt.Errorf("encode admin settings: %w", err)
	}
	row := models.Setting{Key: KeyAdmin, Value: string(payload), UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}
