package models

// Item 代表加入購物車前的商品，不含數量
type Item struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
}

// Product 代表購物車中的單個商品項目
type Product struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func NewProduct(item Item) Product {
	return Product{
		ID:       item.ID,
		Title:    item.Title,
		ImageURL: item.ImageURL,
		Price:    item.Price,
		Quantity: 1,
	}
}

// Item strips the quantity from the line item.
func (p Product) Item() Item {
	return Item{
		ID:       p.ID,
		Title:    p.Title,
		ImageURL: p.ImageURL,
		Price:    p.Price,
	}
}

// CloneProducts returns a copy that shares no backing array with products.
// A nil input yields an empty, non-nil slice.
func CloneProducts(products []Product) []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// IndexOf returns the position of the product with the given id, or -1.
func IndexOf(products []Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
