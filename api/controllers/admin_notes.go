package controllers

import (
	"net/http"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/responses"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/validators"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/catalog"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

type toggleStatusRequest struct {
	CurrentStatus *string `json:"current_status" validate:"omitempty,oneof=published hidden"`
}

// AdminListNotes returns every material regardless of status.
func AdminListNotes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := svc.ListAllMaterials(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, notes)
	}
}

func AdminGetNote(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "noteId", "note")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		note, err := svc.GetMaterial(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

func AdminCreateNote(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req catalog.CreateMaterialInput
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		note, err := svc.CreateMaterial(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, note)
	}
}

func AdminUpdateNote(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "noteId", "note")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req catalog.UpdateMaterialInput
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		note, err := svc.UpdateMaterial(r.Context(), id, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

// AdminToggleNoteStatus flips visibility. When current_status is sent the
// flip is computed from it rather than from the stored row.
func AdminToggleNoteStatus(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "noteId", "note")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req toggleStatusRequest
		if err := validators.DecodeOptionalJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var current *enums.MaterialStatus
		if req.CurrentStatus != nil {
			status, err := enums.ParseMaterialStatus(*req.CurrentStatus)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Field("current_status", "is invalid"))
				return
			}
			current = &status
		}
		note, err := svc.ToggleStatus(r.Context(), id, current)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, note)
	}
}

func AdminDeleteNote(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "noteId", "note")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteMaterial(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
