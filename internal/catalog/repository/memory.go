package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

// MemoryProductRepository is an in-process ProductRepository used for local
// runs without a database (REPOSITORY_TYPE=memory) and by tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

// NewMemoryProductRepository creates an empty in-memory repository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: make(map[string]domain.Product)}
}

func (r *MemoryProductRepository) Create(product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) Upsert(product *domain.Product) error {
	return r.Create(product)
}

func (r *MemoryProductRepository) FindByID(id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (r *MemoryProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.sorted()
	if offset >= len(all) {
		return []domain.Product{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryProductRepository) FindByDrop(dropID string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var products []domain.Product
	for _, p := range r.sorted() {
		if p.DropID == dropID {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *MemoryProductRepository) FindByCategory(category string, limit, offset int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var products []domain.Product
	for _, p := range r.sorted() {
		if p.Category == category {
			products = append(products, p)
		}
	}
	if offset >= len(products) {
		return []domain.Product{}, nil
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

func (r *MemoryProductRepository) Update(product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryProductRepository) SetBlocked(id string, blocked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.Blocked = blocked
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

func (r *MemoryProductRepository) SetSoldOut(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.SoldOut = true
	product.InStock = false
	product.UpdatedAt = time.Now()
	r.products[id] = product
	return nil
}

func (r *MemoryProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *MemoryProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

func (r *MemoryProductRepository) ListDrops() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var drops []string
	for _, p := range r.products {
		if !seen[p.DropID] {
			seen[p.DropID] = true
			drops = append(drops, p.DropID)
		}
	}
	sort.Strings(drops)
	return drops, nil
}

// sorted returns products ordered by drop, level, id. Callers hold the lock.
func (r *MemoryProductRepository) sorted() []domain.Product {
	products := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].DropID != products[j].DropID {
			return products[i].DropID < products[j].DropID
		}
		if products[i].Level != products[j].Level {
			return products[i].Level < products[j].Level
		}
		return products[i].ID < products[j].ID
	})
	return products
}
