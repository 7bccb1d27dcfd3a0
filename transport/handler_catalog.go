package transport

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	"github.com/blipwear/blip-server/utils/errors"
)

// ListProducts handler
// @Summary List products
// @Description Paginated catalog listing with filters and sorting
// @Tags Catalog
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param category query string false "formal, casual or ethnic"
// @Param gender query string false "men, women or unisex"
// @Param color query string false "Color filter"
// @Param minPrice query int false "Minimum price in minor units"
// @Param maxPrice query int false "Maximum price in minor units"
// @Param sortBy query string false "price, created_at or name"
// @Param sortOrder query string false "ASC or DESC"
// @Success 200 {object} model.ProductListResponse
// @Router /products [get]
func (s *RestHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	filter := &model.ProductFilter{
		Category:  query.Get("category"),
		Gender:    query.Get("gender"),
		Color:     query.Get("color"),
		SortField: query.Get("sortBy"),
		SortOrder: strings.ToUpper(query.Get("sortOrder")),
		Page:      parseIntParam(query.Get("page"), 1),
		PerPage:   parseIntParam(query.Get("limit"), 10),
	}
	filter.MinPrice = parseInt64Param(query.Get("minPrice"))
	filter.MaxPrice = parseInt64Param(query.Get("maxPrice"))

	res, err := s.ProductApp.ListProducts(ctx, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// GetProduct handler
// @Summary Get product details
// @Tags Catalog
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.ProductEntity
// @Failure 404 {object} errors.CustomError
// @Router /products/{id} [get]
func (s *RestHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.ProductApp.GetProduct(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseInt64Param(value string) *int64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
