package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/catalog"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared"
	"github.com/keepselvesreal/k-beauty-landing-page/internal/domain/shared/valueobject"
)

// CreateProductRequest carries the admin input for creating a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	Description string          `json:"description"`
	SKU         string          `json:"sku" binding:"required,min=1,max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	ImageURL    string          `json:"image_url"`
}

// ProductService handles catalog management
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	price, err := valueobject.NewMoney(req.Price, valueobject.DefaultCurrency)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.SKU, price)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.ImageURL = req.ImageURL

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU))

	return product, nil
}

// UpdatePrice changes a product's price. Existing orders keep the unit
// price snapshotted at order time.
func (s *ProductService) UpdatePrice(ctx context.Context, productID uuid.UUID, price decimal.Decimal) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	money, err := valueobject.NewMoney(price, valueobject.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	if err := product.UpdatePrice(money); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetActive toggles a product's availability for purchase
func (s *ProductService) SetActive(ctx context.Context, productID uuid.UUID, active bool) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

// ListActiveProducts returns the storefront's purchasable products
func (s *ProductService) ListActiveProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.productRepo.FindActive(ctx, shared.Filter{})
}
