package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/middleware"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/responses"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/validators"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/cart"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

type selectFormatRequest struct {
	Format string `json:"format" validate:"required"`
}

// cartToken reads the token resolved by the CartToken middleware.
func cartToken(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	token := middleware.CartTokenFromContext(r.Context())
	if token == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart token missing"))
		return "", false
	}
	return token, true
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := cartToken(w, r, logg)
		if !ok {
			return
		}
		view, err := svc.Get(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := cartToken(w, r, logg)
		if !ok {
			return
		}
		var req cart.AddItemInput
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddItem(r.Context(), token, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartSelectFormat switches a line between PDF and Printed.
func CartSelectFormat(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := cartToken(w, r, logg)
		if !ok {
			return
		}
		var req selectFormatRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SelectFormat(r.Context(), token, chi.URLParam(r, "itemId"), req.Format)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := cartToken(w, r, logg)
		if !ok {
			return
		}
		view, err := svc.RemoveItem(r.Context(), token, chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := cartToken(w, r, logg)
		if !ok {
			return
		}
		view, err := svc.Clear(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartCheckout places an order from the stored cart and empties it.
func CartCheckout(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := cartToken(w, r, logg)
		if !ok {
			return
		}
		var req cart.CheckoutInput
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Checkout(r.Context(), token, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
