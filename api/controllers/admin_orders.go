package controllers

import (
	"net/http"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/responses"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/validators"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/orders"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/enums"
	pkgerrors "github.com/aryansdevstudios/toppers-toolkit-backend/pkg/errors"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/pagination"
)

// AdminListOrders returns a page of the order queue, newest first.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := enums.ParseOrderView(validators.ParseQueryString(r, "view", 16))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Field("view", "must be one of active, all"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: validators.ParseQueryString(r, "cursor", 256),
		}

		list, err := svc.ListOrders(r.Context(), view, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "orderId", "order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminCompleteOrder marks an order completed. Repeating it is harmless.
func AdminCompleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "orderId", "order")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderID(ctx, id.String())
		}
		order, err := svc.MarkCompleted(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
