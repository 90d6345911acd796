package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"backoffice/internal/domain"
	"backoffice/internal/events"
	"backoffice/internal/repository"
)

const defaultCategory = "uncategorized"

// ProductService covers the catalog use cases.
type ProductService struct {
	repo   repository.ProductRepository
	events events.Publisher
}

func NewProductService(repo repository.ProductRepository, pub events.Publisher) *ProductService {
	return &ProductService{repo: repo, events: orNop(pub)}
}

// CreateProductInput is the create request. Price is a pointer so that a missing price can be
// told apart from zero.
type CreateProductInput struct {
	Name        string
	Description string
	Price       *decimal.Decimal
	Category    string
	SKU         string
	Images      []string
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	if in.Name == "" || in.Price == nil {
		return nil, domain.Validation("Name and price are required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return nil, err
	}
	if in.Category == "" {
		in.Category = defaultCategory
	}
	if in.SKU == "" {
		in.SKU = fmt.Sprintf("SKU-%d", domain.Now().UnixMilli())
	}

	p := domain.NewProduct(in.Name, in.Description, *in.Price, in.Category, in.SKU, in.Images)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	publish(ctx, s.events, events.New(events.ProductCreated, p.ID, p))
	return &p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := checkPrice(*patch.Price); err != nil {
			return nil, err
		}
	}

	updated := existing.Update(patch)
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, notFound(err, "Product not found")
	}
	publish(ctx, s.events, events.New(events.ProductUpdated, updated.ID, updated))
	return &updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "Product not found")
	}
	publish(ctx, s.events, events.New(events.ProductDeleted, id, nil))
	return nil
}

func checkPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return domain.Validation("Price cannot be negative")
	}
	if domain.RoundMoney(p).GreaterThan(domain.MaxMoney) {
		return domain.Validation("Price cannot exceed %s", domain.MaxMoney)
	}
	return nil
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}
