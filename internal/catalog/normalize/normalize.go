// Package normalize turns partially-populated records from external sources
// into complete Product entities. Every ingestion path (CMS sync, admin API,
// replayed events) funnels through Normalize so defaulting lives in one place.
package normalize

import (
	"time"

	"github.com/google/uuid"

	"github.com/dropkit/storefront/internal/catalog/domain"
)

// Defaults applied when a source field is absent. A present-but-zero value is
// always kept; only nil pointers trigger these.
const (
	DefaultName        = "Unnamed Product"
	DefaultDescription = "No description available"
	DefaultCategory    = "Uncategorized"
	DefaultSize        = "One Size"
	DefaultLevel       = 1
)

// RawProduct is an untrusted record that nominally corresponds to a Product.
// Pointer fields distinguish "absent" from a legitimate zero value. Images may
// arrive as a string, a []string, a []interface{} of strings, or nothing at all.
type RawProduct struct {
	ID             *string     `json:"id"`
	Name           *string     `json:"name"`
	Description    *string     `json:"description"`
	Price          *float64    `json:"price"`
	Images         interface{} `json:"images"`
	Category       *string     `json:"category"`
	Size           *string     `json:"size"`
	InStock        *bool       `json:"in_stock"`
	SoldOut        *bool       `json:"sold_out"`
	Level          *int        `json:"level"`
	Blocked        *bool       `json:"blocked"`
	DropID         *string     `json:"drop_id"`
	CreatedTime    *time.Time  `json:"created_time"`
	LastEditedTime *time.Time  `json:"last_edited_time"`
}

// FromProduct converts a complete product back into its raw form. Used by
// ingestion paths that re-run already-normalized data through Normalize.
func FromProduct(p domain.Product) RawProduct {
	images := make([]string, len(p.Images))
	copy(images, p.Images)
	return RawProduct{
		ID:             &p.ID,
		Name:           &p.Name,
		Description:    &p.Description,
		Price:          &p.Price,
		Images:         images,
		Category:       &p.Category,
		Size:           &p.Size,
		InStock:        &p.InStock,
		SoldOut:        &p.SoldOut,
		Level:          &p.Level,
		Blocked:        &p.Blocked,
		DropID:         &p.DropID,
		CreatedTime:    &p.CreatedAt,
		LastEditedTime: &p.UpdatedAt,
	}
}

// Normalize returns a fully-populated Product for any input. It never fails:
// malformed input is absorbed into valid output, because the upstream CMS is
// only partially configured in practice and its schema drifts.
func Normalize(raw RawProduct) domain.Product {
	now := time.Now()

	p := domain.Product{
		ID:          stringOr(raw.ID, ""),
		Name:        stringOr(raw.Name, DefaultName),
		Description: stringOr(raw.Description, DefaultDescription),
		Category:    stringOr(raw.Category, DefaultCategory),
		Size:        stringOr(raw.Size, DefaultSize),
		DropID:      stringOr(raw.DropID, domain.DefaultDrop),
		Images:      normalizeImages(raw.Images),
		Level:       DefaultLevel,
		InStock:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if p.ID == "" {
		p.ID = "unknown-" + uuid.NewString()
	}

	// Preserve a legitimate zero price: only a nil pointer defaults.
	if raw.Price != nil && *raw.Price >= 0 {
		p.Price = *raw.Price
	}

	if raw.Level != nil && *raw.Level >= 1 {
		p.Level = *raw.Level
	}

	if raw.InStock != nil {
		p.InStock = *raw.InStock
	}
	if raw.SoldOut != nil {
		p.SoldOut = *raw.SoldOut
	}
	// Either unavailability signal forces both: in_stock and sold_out never
	// contradict each other after normalization.
	if !p.InStock {
		p.SoldOut = true
	}
	if p.SoldOut {
		p.InStock = false
	}

	if raw.Blocked != nil {
		p.Blocked = *raw.Blocked
	}

	if raw.CreatedTime != nil {
		p.CreatedAt = *raw.CreatedTime
	}
	if raw.LastEditedTime != nil {
		p.UpdatedAt = *raw.LastEditedTime
	}

	return p
}

// normalizeImages collapses the three source shapes into one: a slice stays a
// slice, a bare string becomes a one-element slice, anything else is empty.
func normalizeImages(v interface{}) domain.ImageList {
	switch images := v.(type) {
	case nil:
		return domain.ImageList{}
	case string:
		if images == "" {
			return domain.ImageList{}
		}
		return domain.ImageList{images}
	case []string:
		out := make(domain.ImageList, 0, len(images))
		for _, img := range images {
			if img != "" {
				out = append(out, img)
			}
		}
		return out
	case domain.ImageList:
		out := make(domain.ImageList, 0, len(images))
		for _, img := range images {
			if img != "" {
				out = append(out, img)
			}
		}
		return out
	case []interface{}:
		out := make(domain.ImageList, 0, len(images))
		for _, item := range images {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return domain.ImageList{}
	}
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
