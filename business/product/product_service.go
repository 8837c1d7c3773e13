package product

import (
	"context"
	"errors"
	"fmt"

	"smartCampaign/domain"
	"smartCampaign/pkg/logger"
)

// ProductRepository contract interface
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id uint64) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	IncrementViews(ctx context.Context, id uint64) error
	IncrementPurchases(ctx context.Context, id uint64) error
}

// PurchaseRecorder is the slice of the interaction recorder the buy flow
// needs.
type PurchaseRecorder interface {
	RecordPurchase(ctx context.Context, userID uint) error
}

type productService struct {
	productRepo ProductRepository
	recorder    PurchaseRecorder
}

func NewProductService(productRepo ProductRepository, recorder PurchaseRecorder) *productService {
	return &productService{
		productRepo: productRepo,
		recorder:    recorder,
	}
}

func (s *productService) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to find all products", err)
		return nil, err
	}

	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uint64) (*domain.Product, error) {
	if id == 0 {
		logger.Error("invalid product id")
		return nil, errors.New("invalid product id")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", err)
		return nil, err
	}

	if err := s.productRepo.IncrementViews(ctx, id); err != nil {
		logger.Warn("failed to bump product views", err)
	}

	return &product, nil
}

func (s *productService) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if product.Name == "" {
		logger.Error("Invalid product data: product name is required")
		return nil, errors.New("product name is required")
	}

	if product.Price < 0 {
		logger.Error("Invalid product data: price cannot be negative")
		return nil, errors.New("product price cannot be negative")
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		logger.Error("Failed to create product", err)
		return nil, err
	}

	return product, nil
}

// Buy bumps the product's purchase counter and the buyer's behavioural
// purchase counter in the activity store.
func (s *productService) Buy(ctx context.Context, userID uint, productID uint64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		logger.Error("Product not found for purchase", err)
		return nil, err
	}

	if err := s.productRepo.IncrementPurchases(ctx, productID); err != nil {
		logger.Error("Failed to increment product purchases", err)
		return nil, err
	}

	if err := s.recorder.RecordPurchase(ctx, userID); err != nil {
		return nil, err
	}

	product.Purchases++
	return &product, nil
}
