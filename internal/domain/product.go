package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Status is the publication state shared by products, collections and catalogues.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// ProductImage is one entry of a product's ordered image list.
type ProductImage struct {
	URL          string `json:"url"`
	Description  string `json:"description,omitempty"`
	IsNewArrival bool   `json:"isNewArrival"`
}

// ProductImages is stored as a JSONB array.
type ProductImages []ProductImage

// Value implements driver.Valuer.
func (p ProductImages) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner. SQL NULL scans to an empty list.
func (p *ProductImages) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = ProductImages{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("domain: unsupported type for ProductImages")
	}
	if len(raw) == 0 || string(raw) == "null" {
		*p = ProductImages{}
		return nil
	}
	return json.Unmarshal(raw, p)
}

// Product is a single stone in the catalog.
//
// CollectionID is the strong reference to a Collection. CollectionName and
// Category are legacy shadow copies of the collection's display name; they are
// written when a product is assigned and are not kept in sync afterwards.
type Product struct {
	ID             string  `json:"id"`
	Code           *string `json:"code,omitempty"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	CollectionID   *string `json:"collectionId"`
	CollectionName *string `json:"collectionName"`

	Description   string `json:"description"`
	Color         string `json:"color"`
	Origin        string `json:"origin"`
	IsBookmatch   bool   `json:"isBookmatch"`
	IsTranslucent bool   `json:"isTranslucent"`
	IsNatural     bool   `json:"isNatural"`
	IsNewArrival  bool   `json:"isNewArrival"`

	Grade               string `json:"grade"`
	CompressionStrength string `json:"compressionStrength"`
	ImpactTest          string `json:"impactTest"`
	BulkDensity         string `json:"bulkDensity"`
	WaterAbsorption     string `json:"waterAbsorption"`
	ThermalExpansion    string `json:"thermalExpansion"`
	FlexuralStrength    string `json:"flexuralStrength"`

	PrimaryImage  string        `json:"primaryImage"`
	Images        ProductImages `json:"images"`
	ProductImages ProductImages `json:"productImages"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
