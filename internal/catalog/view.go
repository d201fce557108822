package catalog

import "stone-catalog-service/internal/domain"

const (
	PlaceholderImage = "/images/placeholder-stone.jpg"
	NotSpecified     = "Not specified"
	NotPublished     = "Not Published"
)

// ProductView is a Product with every display field filled in, since the
// storefront renders them as plain text unconditionally.
type ProductView struct {
	domain.Product
	DisplayImage string `json:"displayImage"`

	Color  string `json:"color"`
	Origin string `json:"origin"`
	Grade  string `json:"grade"`

	CompressionStrength string `json:"compressionStrength"`
	ImpactTest          string `json:"impactTest"`
	BulkDensity         string `json:"bulkDensity"`
	WaterAbsorption     string `json:"waterAbsorption"`
	ThermalExpansion    string `json:"thermalExpansion"`
	FlexuralStrength    string `json:"flexuralStrength"`
}

func NewProductView(p domain.Product) ProductView {
	return ProductView{
		Product:      p,
		DisplayImage: DisplayImage(p),

		Color:  orDefault(p.Color, NotSpecified),
		Origin: orDefault(p.Origin, NotSpecified),
		Grade:  orDefault(p.Grade, NotSpecified),

		CompressionStrength: orDefault(p.CompressionStrength, NotPublished),
		ImpactTest:          orDefault(p.ImpactTest, NotPublished),
		BulkDensity:         orDefault(p.BulkDensity, NotPublished),
		WaterAbsorption:     orDefault(p.WaterAbsorption, NotPublished),
		ThermalExpansion:    orDefault(p.ThermalExpansion, NotPublished),
		FlexuralStrength:    orDefault(p.FlexuralStrength, NotPublished),
	}
}

// NewProductViews maps NewProductView over products.
func NewProductViews(products []domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	return views
}

// DisplayImage picks primaryImage, then the first images entry, then the
// first productImages entry, then the placeholder.
func DisplayImage(p domain.Product) string {
	if p.PrimaryImage != "" {
		return p.PrimaryImage
	}
	for _, list := range []domain.ProductImages{p.Images, p.ProductImages} {
		if len(list) > 0 && list[0].URL != "" {
			return list[0].URL
		}
	}
	return PlaceholderImage
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
