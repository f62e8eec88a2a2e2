package domain

// ProductRecord is a read-only snapshot of a catalog item used for search.
type ProductRecord struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	ShortDescription string              `json:"short_description"`
	SKU              string              `json:"sku"`
	Price            float64             `json:"price"`
	RegularPrice     float64             `json:"regular_price"`
	SalePrice        float64             `json:"sale_price"`
	Categories       []string            `json:"categories"`
	Tags             []string            `json:"tags"`
	Attributes       map[string][]string `json:"attributes,omitempty"`
	URL              string              `json:"url"`
	Image            string              `json:"image,omitempty"`
	InStock          bool                `json:"in_stock"`
	Featured         bool                `json:"featured"`
	TotalSales       int                 `json:"total_sales"`
	MetaTitle        string              `json:"meta_title,omitempty"`
	MetaDescription  string              `json:"meta_description,omitempty"`
}

// CategoryCount pairs a product category with the number of products in it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
