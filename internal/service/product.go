package service

import (
	"context"

	"github.com/kmikhaylov/shop_backend/internal/models"
	"github.com/kmikhaylov/shop_backend/internal/repo"
	"github.com/kmikhaylov/shop_backend/internal/transport"
)

// ProductService is plain CRUD; request validation happens on the DTOs.
// Absence surfaces as gorm.ErrRecordNotFound for the handlers to translate.
type ProductService struct {
	Repo *repo.GormRepo
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *ProductService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

func (s *ProductService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	return s.Repo.CreateProduct(ctx, &models.Product{
		Name:  req.Name,
		Price: req.Price,
	})
}

func (s *ProductService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	return s.Repo.PatchProduct(ctx, req, id)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	return s.Repo.DeleteProduct(ctx, id)
}
