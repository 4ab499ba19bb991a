package catalog

import (
	"time"

	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/db/models"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/types"
	"github.com/google/uuid"
)

// MaterialDTO is the API shape of a note material.
type MaterialDTO struct {
	ID              uuid.UUID            `json:"id"`
	SubjectID       string               `json:"subject_id"`
	SubjectName     string               `json:"subject_name"`
	SubcategoryID   string               `json:"subcategory_id"`
	SubcategoryName string               `json:"subcategory_name"`
	Chapter         string               `json:"chapter"`
	Description     string               `json:"description"`
	ImageURL        string               `json:"image_url"`
	Status          enums.MaterialStatus `json:"status"`
	Prices          types.NotePrices     `json:"prices"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// Chapter groups the published materials of one chapter.
type Chapter struct {
	Name      string        `json:"name"`
	Materials []MaterialDTO `json:"materials"`
}

// ChapterPage is the subject/subcategory page payload.
type ChapterPage struct {
	Subject     Subject     `json:"subject"`
	Subcategory SubCategory `json:"subcategory"`
	Chapters    []Chapter   `json:"chapters"`
}

func toMaterialDTO(m models.NoteMaterial, defaultImage string) MaterialDTO {
	image := defaultImage
	if m.ImageURL != nil && *m.ImageURL != "" {
		image = *m.ImageURL
	}
	return MaterialDTO{
		ID:              m.ID,
		SubjectID:       m.SubjectID,
		SubjectName:     m.SubjectName,
		SubcategoryID:   m.SubcategoryID,
		SubcategoryName: m.SubcategoryName,
		Chapter:         m.Chapter,
		Description:     m.Description,
		ImageURL:        image,
		Status:          m.Status,
		Prices:          m.Prices,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func toMaterialDTOs(rows []models.NoteMaterial, defaultImage string) []MaterialDTO {
	out := make([]MaterialDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toMaterialDTO(row, defaultImage))
	}
	return out
}

// groupChapters buckets materials by chapter name, keeping the order in which
// each chapter was first seen.
func groupChapters(materials []MaterialDTO) []Chapter {
	chapters := []Chapter{}
	index := map[string]int{}
	for _, m := range materials {
		i, ok := index[m.Chapter]
		if !ok {
			i = len(chapters)
			index[m.Chapter] = i
			chapters = append(chapters, Chapter{Name: m.Chapter})
		}
		chapters[i].Materials = append(chapters[i].Materials, m)
	}
	return chapters
}
