package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// TracedProductRepository wraps any ProductRepository with tracing on the
// context-aware read paths the HTTP layer hits on every request.
type TracedProductRepository struct {
	domain.ProductRepository
}

// NewTracedProductRepository creates a repository decorator with tracing
func NewTracedProductRepository(repo domain.ProductRepository) *TracedProductRepository {
	return &TracedProductRepository{ProductRepository: repo}
}

// FindByIDWithContext with tracing
func (r *TracedProductRepository) FindByIDWithContext(ctx context.Context, id string) (*domain.Product, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.String("product.id", id),
		),
	)
	defer span.End()

	product, err := r.ProductRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.name", product.Name),
		attribute.String("product.drop_id", product.DropID),
		attribute.Int("product.level", product.Level),
	)
	return product, nil
}

// FindByDropWithContext with tracing
func (r *TracedProductRepository) FindByDropWithContext(ctx context.Context, dropID string) ([]domain.Product, error) {
	_, span := tracer.Start(ctx, "repository.FindByDrop",
		trace.WithAttributes(
			attribute.String("drop.id", dropID),
		),
	)
	defer span.End()

	products, err := r.ProductRepository.FindByDrop(dropID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

// UpsertWithContext with tracing
func (r *TracedProductRepository) UpsertWithContext(ctx context.Context, product *domain.Product) error {
	_, span := tracer.Start(ctx, "repository.Upsert",
		trace.WithAttributes(
			attribute.String("product.id", product.ID),
			attribute.String("product.drop_id", product.DropID),
			attribute.Int("product.level", product.Level),
		),
	)
	defer span.End()

	if err := r.ProductRepository.Upsert(product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
