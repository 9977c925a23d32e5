package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

func product(id, drop string, level int) domain.Product {
	return domain.Product{ID: id, DropID: drop, Level: level, InStock: true}
}

func TestComputeLevelSequence(t *testing.T) {
	products := []domain.Product{
		product("a1", "summer", 1),
		product("a2", "summer", 1),
		product("b1", "summer", 2),
		product("c1", "summer", 3),
	}

	t.Run("upper levels locked while level one unsold", func(t *testing.T) {
		states := Compute(products, nil)
		assert.Equal(t, domain.StateAvailable, states["a1"])
		assert.Equal(t, domain.StateAvailable, states["a2"])
		assert.Equal(t, domain.StateLocked, states["b1"])
		assert.Equal(t, domain.StateLocked, states["c1"])
	})

	t.Run("partial lower level keeps upper locked", func(t *testing.T) {
		states := Compute(products, map[string]bool{"a1": true})
		assert.Equal(t, domain.StateSoldOut, states["a1"])
		assert.Equal(t, domain.StateAvailable, states["a2"])
		assert.Equal(t, domain.StateLocked, states["b1"])
	})

	t.Run("cleared level one unlocks level two only", func(t *testing.T) {
		states := Compute(products, map[string]bool{"a1": true, "a2": true})
		assert.Equal(t, domain.StateAvailable, states["b1"])
		assert.Equal(t, domain.StateLocked, states["c1"])
	})

	t.Run("all lower levels cleared unlocks the top", func(t *testing.T) {
		states := Compute(products, map[string]bool{"a1": true, "a2": true, "b1": true})
		assert.Equal(t, domain.StateAvailable, states["c1"])
	})
}

func TestComputeDropsAreIndependent(t *testing.T) {
	products := []domain.Product{
		product("s1", "summer", 1),
		product("s2", "summer", 2),
		product("w1", "winter", 1),
		product("w2", "winter", 2),
	}

	// Selling out summer level 1 must not unlock anything in winter.
	states := Compute(products, map[string]bool{"s1": true})

	assert.Equal(t, domain.StateAvailable, states["s2"])
	assert.Equal(t, domain.StateAvailable, states["w1"])
	assert.Equal(t, domain.StateLocked, states["w2"])
}

func TestComputeSoldOutBeatsLocked(t *testing.T) {
	products := []domain.Product{
		product("a", "drop", 1),
		product("b", "drop", 2),
	}

	// b sits behind an unsold level 1 but is itself sold: SOLD_OUT wins.
	states := Compute(products, map[string]bool{"b": true})
	assert.Equal(t, domain.StateSoldOut, states["b"])
}

func TestComputeBlockedProduct(t *testing.T) {
	blocked := product("x", "drop", 1)
	blocked.Blocked = true

	states := Compute([]domain.Product{blocked}, nil)
	assert.Equal(t, domain.StateLocked, states["x"])
}

func TestComputeUnavailableProductIsSoldOut(t *testing.T) {
	out := product("x", "drop", 1)
	out.InStock = false

	states := Compute([]domain.Product{out}, nil)
	assert.Equal(t, domain.StateSoldOut, states["x"])
}

func TestComputeMalformedLevelTreatedAsBase(t *testing.T) {
	weird := product("w", "drop", -5)
	sibling := product("s", "drop", 2)

	states := Compute([]domain.Product{weird, sibling}, nil)

	// A clamped level behaves exactly like level 1: never locked by sequence.
	assert.Equal(t, domain.StateAvailable, states["w"])
	assert.Equal(t, domain.StateLocked, states["s"])
}

func TestComputeSingleProductDrop(t *testing.T) {
	states := Compute([]domain.Product{product("solo", "drop", 1)}, nil)
	assert.Equal(t, domain.StateAvailable, states["solo"])
}

func TestComputeIsPure(t *testing.T) {
	products := []domain.Product{
		product("a", "drop", 1),
		product("b", "drop", 2),
	}
	sold := map[string]bool{"a": true}

	first := Compute(products, sold)
	second := Compute(products, sold)

	assert.Equal(t, first, second)
	// Inputs stay untouched.
	assert.True(t, products[0].InStock)
	assert.Equal(t, map[string]bool{"a": true}, sold)
}

func TestStateOf(t *testing.T) {
	target := product("b", "drop", 2)
	siblings := []domain.Product{product("a", "drop", 1)}

	assert.Equal(t, domain.StateLocked, StateOf(target, siblings, nil))
	assert.Equal(t, domain.StateAvailable, StateOf(target, siblings, map[string]bool{"a": true}))
}

func TestUnlockLevel(t *testing.T) {
	siblings := []domain.Product{
		product("a", "drop", 1),
		product("b", "drop", 2),
	}
	target := product("c", "drop", 3)

	t.Run("lowest unsold level blocks", func(t *testing.T) {
		assert.Equal(t, 1, UnlockLevel(target, siblings, nil))
	})

	t.Run("next level blocks after the first clears", func(t *testing.T) {
		assert.Equal(t, 2, UnlockLevel(target, siblings, map[string]bool{"a": true}))
	})

	t.Run("nothing blocks once all lower levels sold", func(t *testing.T) {
		assert.Equal(t, 0, UnlockLevel(target, siblings, map[string]bool{"a": true, "b": true}))
	})

	t.Run("level one is never blocked", func(t *testing.T) {
		assert.Equal(t, 0, UnlockLevel(product("a", "drop", 1), siblings, nil))
	})
}
