package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	utilsContext "github.com/blipwear/blip-server/utils/context"
	"github.com/blipwear/blip-server/utils/errors"
	validatorx "github.com/blipwear/blip-server/utils/validator"
)

// AddToCart handler
// @Summary Add a product to the cart
// @Description Adds a product with its rental dates; the per-day surcharge is snapshotted at add-time
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.AddToCartRequest true "Add to cart"
// @Success 200 {object} response
// @Failure 400 {object} errors.CustomError
// @Router /cart [post]
func (s *RestHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.CartApp.AddItem(ctx, userID, &req); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// GetCart handler
// @Summary Get the cart with computed totals
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.CartResponse
// @Failure 401 {object} errors.CustomError
// @Router /cart [get]
func (s *RestHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.CartApp.GetCart(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// RemoveFromCart handler
// @Summary Remove a cart line item
// @Description Deletes the item only if it belongs to the caller's cart
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Param id path int true "Cart item ID"
// @Success 200 {object} response
// @Failure 404 {object} errors.CustomError
// @Router /cart/items/{id} [delete]
func (s *RestHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	itemID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.CartApp.RemoveItem(ctx, userID, itemID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}
