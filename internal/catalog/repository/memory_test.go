package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

func seed(t *testing.T, repo *MemoryProductRepository, id, drop string, level int) {
	t.Helper()
	require.NoError(t, repo.Create(&domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Category: "vintage",
		DropID:   drop,
		Level:    level,
		InStock:  true,
	}))
}

func TestMemoryRepositoryFindByID(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "p1", "summer", 1)

	product, err := repo.FindByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "Product p1", product.Name)

	_, err = repo.FindByID("ghost")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMemoryRepositoryFindAllOrdersByDropLevelID(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "w-1", "winter", 1)
	seed(t, repo, "s-2", "summer", 2)
	seed(t, repo, "s-1b", "summer", 1)
	seed(t, repo, "s-1a", "summer", 1)

	products, err := repo.FindAll(0, 0)
	require.NoError(t, err)
	require.Len(t, products, 4)

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"s-1a", "s-1b", "s-2", "w-1"}, ids)
}

func TestMemoryRepositoryFindAllPagination(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "p1", "drop", 1)
	seed(t, repo, "p2", "drop", 1)
	seed(t, repo, "p3", "drop", 1)

	page, err := repo.FindAll(2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "p2", page[0].ID)

	empty, err := repo.FindAll(10, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryRepositoryFindByDrop(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "s-1", "summer", 1)
	seed(t, repo, "w-1", "winter", 1)

	products, err := repo.FindByDrop("summer")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "s-1", products[0].ID)
}

func TestMemoryRepositoryUpsertOverwrites(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "p1", "summer", 1)

	require.NoError(t, repo.Upsert(&domain.Product{ID: "p1", Name: "Renamed", DropID: "summer", Level: 1}))

	product, err := repo.FindByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", product.Name)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryRepositoryUpdateMissing(t *testing.T) {
	repo := NewMemoryProductRepository()
	err := repo.Update(&domain.Product{ID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMemoryRepositorySetSoldOut(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "p1", "summer", 1)

	require.NoError(t, repo.SetSoldOut("p1"))

	product, err := repo.FindByID("p1")
	require.NoError(t, err)
	assert.True(t, product.SoldOut)
	assert.False(t, product.InStock)

	assert.ErrorIs(t, repo.SetSoldOut("ghost"), domain.ErrProductNotFound)
}

func TestMemoryRepositorySetBlocked(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "p1", "summer", 1)

	require.NoError(t, repo.SetBlocked("p1", true))
	product, err := repo.FindByID("p1")
	require.NoError(t, err)
	assert.True(t, product.Blocked)

	assert.ErrorIs(t, repo.SetBlocked("ghost", true), domain.ErrProductNotFound)
}

func TestMemoryRepositoryListDrops(t *testing.T) {
	repo := NewMemoryProductRepository()
	seed(t, repo, "w-1", "winter", 1)
	seed(t, repo, "s-1", "summer", 1)
	seed(t, repo, "s-2", "summer", 2)

	drops, err := repo.ListDrops()
	require.NoError(t, err)
	assert.Equal(t, []string{"summer", "winter"}, drops)
}
