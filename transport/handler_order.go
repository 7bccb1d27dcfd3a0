package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	utilsContext "github.com/blipwear/blip-server/utils/context"
	"github.com/blipwear/blip-server/utils/errors"
)

// Checkout handler
// @Summary Checkout the cart
// @Description Converts the cart into a pending order; unpaid orders expire and restock automatically
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CheckoutRequest true "Checkout"
// @Success 200 {object} model.CheckoutResponse
// @Failure 400 {object} errors.CustomError
// @Router /orders [post]
func (s *RestHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	// Shipping address is optional, an empty body is fine; a malformed one
	// is not.
	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.OrderApp.Checkout(ctx, userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ListOrders handler
// @Summary List the caller's orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.OrderListResponse
// @Failure 401 {object} errors.CustomError
// @Router /orders [get]
func (s *RestHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.OrderApp.ListOrders(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}
