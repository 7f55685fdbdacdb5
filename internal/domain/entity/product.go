package entity

// Product is a catalog record. The catalog is static mock data; prices here
// are list prices, not the snapshots carried by cart items.
type Product struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	Description   string   `json:"description"`
	InStock       bool     `json:"inStock"`
	Features      []string `json:"features"`
}
