package product

import (
	"context"

	"go.uber.org/zap"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	productrepo "github.com/blipwear/blip-server/repository/product"
	"github.com/blipwear/blip-server/utils/errors"
	"github.com/blipwear/blip-server/utils/logger"
)

type ProductApp interface {
	ListProducts(ctx context.Context, filter *model.ProductFilter) (*model.ProductListResponse, error)
	GetProduct(ctx context.Context, id uint64) (*model.ProductEntity, error)
	CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.CreateProductResponse, error)
	UpdateProduct(ctx context.Context, id uint64, req *model.UpdateProductRequest) error
	DeleteProduct(ctx context.Context, id uint64) error
}

type productAppImpl struct {
	productRepo productrepo.ProductRepository
}

func NewProductApp(productRepo productrepo.ProductRepository) ProductApp {
	return &productAppImpl{productRepo: productRepo}
}

// ListProducts applies defaults and whitelists before touching the store:
// unknown sort fields fall back to created_at, unknown orders to ASC, and
// enum filters are checked against the catalog values.
func (s *productAppImpl) ListProducts(ctx context.Context, filter *model.ProductFilter) (*model.ProductListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}
	if !constant.ValidSortFields[filter.SortField] {
		filter.SortField = constant.DefaultSortField
	}
	if !constant.ValidSortOrders[filter.SortOrder] {
		filter.SortOrder = constant.DefaultSortOrder
	}
	if filter.Category != "" && !constant.ValidCategories[filter.Category] {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	if filter.Gender != "" && !constant.ValidGenders[filter.Gender] {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	items, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		logger.Error("[ListProducts] error productRepo.List", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.ProductListResponse{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
	}, nil
}

func (s *productAppImpl) GetProduct(ctx context.Context, id uint64) (*model.ProductEntity, error) {
	result, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error("[GetProduct] error productRepo.GetByID", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if result == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	return result, nil
}

func (s *productAppImpl) CreateProduct(ctx context.Context, req *model.CreateProductRequest) (*model.CreateProductResponse, error) {
	id, err := s.productRepo.Create(ctx, req)
	if err != nil {
		logger.Error("[CreateProduct] error productRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.CreateProductResponse{ProductID: id}, nil
}

// UpdateProduct applies an explicit partial update; a request with no fields
// set is rejected rather than silently ignored.
func (s *productAppImpl) UpdateProduct(ctx context.Context, id uint64, req *model.UpdateProductRequest) error {
	if !req.HasChanges() {
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}

	found, err := s.productRepo.Update(ctx, id, req)
	if err != nil {
		logger.Error("[UpdateProduct] error productRepo.Update", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if !found {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	return nil
}

func (s *productAppImpl) DeleteProduct(ctx context.Context, id uint64) error {
	found, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		logger.Error("[DeleteProduct] error productRepo.Delete", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if !found {
		return errors.SetCustomError(constant.ErrNotFound)
	}

	return nil
}
