package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultDrop is the drop assigned to products whose source record carries none.
const DefaultDrop = "general"

// ErrProductNotFound is returned by repositories when no product matches the id.
var ErrProductNotFound = errors.New("product not found")

// ImageList stores an ordered list of image URLs as a JSON column.
type ImageList []string

// Value implements driver.Valuer.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *ImageList) Scan(value interface{}) error {
	if value == nil {
		*l = ImageList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported image list column type %T", value)
	}
}

// Product represents one uniquely-stocked catalog item. Each product carries a
// single unit: once that unit is sold the product stays in the catalog as sold out.
type Product struct {
	ID          string         `json:"id" gorm:"primaryKey;size:64"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Price       float64        `json:"price" gorm:"not null"`
	Images      ImageList      `json:"images" gorm:"type:jsonb"`
	Category    string         `json:"category"`
	Size        string         `json:"size"`
	InStock     bool           `json:"in_stock" gorm:"default:true"`
	SoldOut     bool           `json:"sold_out" gorm:"default:false"`
	Level       int            `json:"level" gorm:"not null;default:1"`
	DropID      string         `json:"drop_id" gorm:"index;not null"`
	Blocked     bool           `json:"blocked" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Unavailable reports whether the product's own stock state rules out a purchase,
// independent of any unlock sequencing.
func (p *Product) Unavailable() bool {
	return p.SoldOut || !p.InStock
}

// AvailabilityState is the effective purchasability of a product, derived on
// every read from the catalog snapshot and the sold-mark projection.
type AvailabilityState string

const (
	// StateAvailable means in stock, not sold and not held back by sequencing.
	StateAvailable AvailabilityState = "available"
	// StateSoldOut means the product's single unit has been sold.
	StateSoldOut AvailabilityState = "sold_out"
	// StateLocked means a lower level of the same drop has not sold out yet,
	// or an editorial block is in place.
	StateLocked AvailabilityState = "locked"
)

// ProductRepository defines the contract for catalog data access
type ProductRepository interface {
	Create(product *Product) error
	Upsert(product *Product) error
	FindByID(id string) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	FindByDrop(dropID string) ([]Product, error)
	FindByCategory(category string, limit, offset int) ([]Product, error)
	Update(product *Product) error
	SetBlocked(id string, blocked bool) error
	SetSoldOut(id string) error
	Delete(id string) error
	Count() (int64, error)
	ListDrops() ([]string, error)
}
