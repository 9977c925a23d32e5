package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropkit/storefront/internal/catalog/domain"
	"github.com/dropkit/storefront/internal/catalog/normalize"
	"github.com/dropkit/storefront/internal/catalog/repository"
	"github.com/dropkit/storefront/internal/catalog/soldmark"
	"github.com/dropkit/storefront/kafka"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

func seedProduct(t *testing.T, repo domain.ProductRepository, id, drop string, level int) *domain.Product {
	t.Helper()
	p := normalize.Normalize(normalize.RawProduct{
		ID:     strPtr(id),
		Name:   strPtr("Product " + id),
		Price:  floatPtr(10),
		DropID: strPtr(drop),
		Level:  intPtr(level),
	})
	require.NoError(t, repo.Create(&p))
	return &p
}

type capturingPublisher struct {
	events []kafka.ProductSoldEvent
	err    error
}

func (p *capturingPublisher) PublishProductSold(_ context.Context, event kafka.ProductSoldEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

type staticFetcher struct {
	records []normalize.RawProduct
	err     error
}

func (f *staticFetcher) FetchProducts(context.Context) ([]normalize.RawProduct, error) {
	return f.records, f.err
}

func TestCreateProduct(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	handler := NewCreateProductHandler(repo)

	product, err := handler.Handle(CreateProductCommand{Record: normalize.RawProduct{
		Name:  strPtr("New Drop Tee"),
		Price: floatPtr(35),
	}})
	require.NoError(t, err)

	assert.Equal(t, "New Drop Tee", product.Name)
	assert.Equal(t, normalize.DefaultCategory, product.Category)
	assert.Equal(t, domain.DefaultDrop, product.DropID)
	assert.NotEmpty(t, product.ID)

	stored, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Name, stored.Name)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	handler := NewCreateProductHandler(repository.NewMemoryProductRepository())

	_, err := handler.Handle(CreateProductCommand{Record: normalize.RawProduct{
		Price: floatPtr(-1),
	}})
	assert.Error(t, err)
}

func TestCreateProductRejectsDuplicateID(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	seedProduct(t, repo, "p1", "drop", 1)

	handler := NewCreateProductHandler(repo)
	_, err := handler.Handle(CreateProductCommand{Record: normalize.RawProduct{ID: strPtr("p1")}})
	assert.Error(t, err)
}

func TestUpdateProductPartial(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	seedProduct(t, repo, "p1", "summer", 2)

	handler := NewUpdateProductHandler(repo)
	updated, err := handler.Handle(UpdateProductCommand{
		ID:     "p1",
		Record: normalize.RawProduct{Price: floatPtr(99)},
	})
	require.NoError(t, err)

	// Only the price changed.
	assert.Equal(t, 99.0, updated.Price)
	assert.Equal(t, "Product p1", updated.Name)
	assert.Equal(t, "summer", updated.DropID)
	assert.Equal(t, 2, updated.Level)
}

func TestUpdateProductRestockClearsSoldOut(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	seedProduct(t, repo, "p1", "summer", 1)
	require.NoError(t, repo.SetSoldOut("p1"))

	handler := NewUpdateProductHandler(repo)
	updated, err := handler.Handle(UpdateProductCommand{
		ID:     "p1",
		Record: normalize.RawProduct{InStock: boolPtr(true)},
	})
	require.NoError(t, err)

	assert.True(t, updated.InStock)
	assert.False(t, updated.SoldOut)
}

func TestUpdateProductNotFound(t *testing.T) {
	handler := NewUpdateProductHandler(repository.NewMemoryProductRepository())

	_, err := handler.Handle(UpdateProductCommand{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	seedProduct(t, repo, "p1", "drop", 1)

	handler := NewDeleteProductHandler(repo)
	require.NoError(t, handler.Handle(DeleteProductCommand{ID: "p1"}))

	_, err := repo.FindByID("p1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeleteProductNotFound(t *testing.T) {
	handler := NewDeleteProductHandler(repository.NewMemoryProductRepository())
	assert.ErrorIs(t, handler.Handle(DeleteProductCommand{ID: "missing"}), domain.ErrProductNotFound)
}

func TestSetBlocked(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	seedProduct(t, repo, "p1", "drop", 1)

	handler := NewSetBlockedHandler(repo)
	require.NoError(t, handler.Handle(SetBlockedCommand{ID: "p1", Blocked: true}))

	stored, err := repo.FindByID("p1")
	require.NoError(t, err)
	assert.True(t, stored.Blocked)

	require.NoError(t, handler.Handle(SetBlockedCommand{ID: "p1", Blocked: false}))
	stored, err = repo.FindByID("p1")
	require.NoError(t, err)
	assert.False(t, stored.Blocked)
}

func TestMarkSold(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryProductRepository()
	marks := soldmark.NewMemoryStore()
	publisher := &capturingPublisher{}
	seedProduct(t, repo, "p1", "summer", 2)

	handler := NewMarkSoldHandler(repo, marks, publisher)
	require.NoError(t, handler.Handle(ctx, MarkSoldCommand{ProductID: "p1"}))

	sold, err := marks.IsSold(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, sold)

	// The catalog record itself stays untouched; sold state is a projection.
	stored, err := repo.FindByID("p1")
	require.NoError(t, err)
	assert.False(t, stored.SoldOut)

	require.Len(t, publisher.events, 1)
	event := publisher.events[0]
	assert.Equal(t, "p1", event.ProductID)
	assert.Equal(t, "summer", event.DropID)
	assert.Equal(t, 2, event.Level)
	assert.Equal(t, kafka.ChannelStorefront, event.Channel)
}

func TestMarkSoldWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryProductRepository()
	marks := soldmark.NewMemoryStore()
	seedProduct(t, repo, "p1", "drop", 1)

	handler := NewMarkSoldHandler(repo, marks, nil)
	require.NoError(t, handler.Handle(ctx, MarkSoldCommand{ProductID: "p1"}))

	sold, err := marks.IsSold(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, sold)
}

func TestMarkSoldPublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryProductRepository()
	marks := soldmark.NewMemoryStore()
	seedProduct(t, repo, "p1", "drop", 1)

	handler := NewMarkSoldHandler(repo, marks, &capturingPublisher{err: errors.New("broker down")})
	require.NoError(t, handler.Handle(ctx, MarkSoldCommand{ProductID: "p1"}))

	sold, err := marks.IsSold(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, sold)
}

func TestMarkSoldNotFound(t *testing.T) {
	handler := NewMarkSoldHandler(repository.NewMemoryProductRepository(), soldmark.NewMemoryStore(), nil)
	err := handler.Handle(context.Background(), MarkSoldCommand{ProductID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestApplySoldEvent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryProductRepository()
	marks := soldmark.NewMemoryStore()
	seedProduct(t, repo, "p1", "drop", 1)

	handler := NewApplySoldEventHandler(repo, marks)

	t.Run("storefront channel only marks the projection", func(t *testing.T) {
		require.NoError(t, handler.Handle(ctx, kafka.ProductSoldEvent{
			ProductID: "p1",
			Channel:   kafka.ChannelStorefront,
		}))

		sold, err := marks.IsSold(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, sold)

		stored, err := repo.FindByID("p1")
		require.NoError(t, err)
		assert.False(t, stored.SoldOut)
	})

	t.Run("external channel persists the sold flag", func(t *testing.T) {
		require.NoError(t, handler.Handle(ctx, kafka.ProductSoldEvent{
			ProductID: "p1",
			Channel:   kafka.ChannelExternal,
		}))

		stored, err := repo.FindByID("p1")
		require.NoError(t, err)
		assert.True(t, stored.SoldOut)
		assert.False(t, stored.InStock)
	})

	t.Run("external event for unknown product still marks", func(t *testing.T) {
		require.NoError(t, handler.Handle(ctx, kafka.ProductSoldEvent{
			ProductID: "ghost",
			Channel:   kafka.ChannelExternal,
		}))

		sold, err := marks.IsSold(ctx, "ghost")
		require.NoError(t, err)
		assert.True(t, sold)
	})

	t.Run("event without product id is rejected", func(t *testing.T) {
		assert.Error(t, handler.Handle(ctx, kafka.ProductSoldEvent{}))
	})
}

func TestImportProducts(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	handler := NewImportProductsHandler(repo)

	count, err := handler.Handle(ImportProductsCommand{Records: []normalize.RawProduct{
		{ID: strPtr("p1"), Name: strPtr("One")},
		{},
		{ID: strPtr("p1"), Name: strPtr("One Again")},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// The duplicate id upserted over the first record.
	stored, err := repo.FindByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "One Again", stored.Name)

	total, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestSyncCatalog(t *testing.T) {
	repo := repository.NewMemoryProductRepository()
	importer := NewImportProductsHandler(repo)

	t.Run("imports fetched records", func(t *testing.T) {
		fetcher := &staticFetcher{records: []normalize.RawProduct{
			{ID: strPtr("p1")},
			{ID: strPtr("p2")},
		}}
		handler := NewSyncCatalogHandler(fetcher, importer)

		count, err := handler.Handle(context.Background(), SyncCatalogCommand{})
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("surfaces fetch failure once", func(t *testing.T) {
		fetcher := &staticFetcher{err: errors.New("cms unreachable")}
		handler := NewSyncCatalogHandler(fetcher, importer)

		_, err := handler.Handle(context.Background(), SyncCatalogCommand{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not load products")
	})

	t.Run("fails without a configured fetcher", func(t *testing.T) {
		handler := NewSyncCatalogHandler(nil, importer)
		_, err := handler.Handle(context.Background(), SyncCatalogCommand{})
		assert.Error(t, err)
	})
}
