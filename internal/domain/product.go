package domain

// Product is a catalog item as returned by the upstream product API.
type Product struct {
	ID          int64   `json:"id" validate:"required,gte=1"`
	Title       string  `json:"title" validate:"required,max=500"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
	Rating      Rating  `json:"rating"`
}

// Rating is the aggregated customer rating of a product.
type Rating struct {
	Rate  float64 `json:"rate" validate:"gte=0,lte=5"`
	Count int     `json:"count" validate:"gte=0"`
}
