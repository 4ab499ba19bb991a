package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/responses"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/validators"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

// CatalogListSubjects returns the static subject hierarchy.
func CatalogListSubjects(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.ListSubjects())
	}
}

func CatalogGetSubject(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject, err := svc.GetSubject(chi.URLParam(r, "subjectId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subject)
	}
}

// CatalogListChapters returns published materials for one subcategory grouped
// by chapter.
func CatalogListChapters(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.ListChaptersFor(r.Context(), chi.URLParam(r, "subjectId"), chi.URLParam(r, "subcategoryId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CatalogRecentNotes returns the newest published materials for the home page.
func CatalogRecentNotes(svc catalog.Service, defaultLimit int, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", defaultLimit, 1, catalog.MaxRecentLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		notes, err := svc.ListRecentPublished(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, notes)
	}
}
