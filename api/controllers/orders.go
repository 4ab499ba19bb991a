package controllers

import (
	"context"
	"net/http"

	"github.com/aryansdevstudios/toppers-toolkit-backend/api/responses"
	"github.com/aryansdevstudios/toppers-toolkit-backend/api/validators"
	"github.com/aryansdevstudios/toppers-toolkit-backend/internal/orders"
	"github.com/aryansdevstudios/toppers-toolkit-backend/pkg/logger"
)

type orderPlacer interface {
	PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.PlaceOrderResult, error)
}

// OrdersPlace accepts a serialized cart snapshot directly. The caller owns
// clearing its cart afterwards.
func OrdersPlace(svc orderPlacer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orders.PlaceOrderInput
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.PlaceOrder(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
