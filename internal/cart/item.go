package cart

import (
	"math"
	"slices"
	"sort"
)

// Attributes are the variant selectors of a line (size, color, material).
// Key order carries no meaning.
type Attributes map[string]string

// Equal reports whether a and b select the same variant. A nil map and an
// empty map are equal.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := b[k]
		if !ok || v != a[k] {
			return false
		}
	}
	return true
}

// Clone returns a copy that never aliases a.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Product is the catalog snapshot denormalized into a cart line.
type Product struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	ComparePrice  float64  `json:"comparePrice,omitempty"`
	Images        []string `json:"images"`
	Slug          string   `json:"slug,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	TrackQuantity bool     `json:"trackQuantity"`
	Category      string   `json:"category,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Featured      bool     `json:"featured,omitempty"`
}

// StockLevel returns the known stock and whether one was reported.
func (p *Product) StockLevel() (int, bool) {
	if p == nil || p.Stock == nil {
		return 0, false
	}
	return *p.Stock, true
}

func (p *Product) clone() *Product {
	if p == nil {
		return nil
	}
	out := *p
	out.Images = slices.Clone(p.Images)
	if p.Stock != nil {
		stock := *p.Stock
		out.Stock = &stock
	}
	return &out
}

// CartItem is one line of a cart.
type CartItem struct {
	ProductID  string     `json:"productId"`
	Product    *Product   `json:"product"`
	Quantity   int        `json:"quantity"`
	Price      float64    `json:"price"`
	Attributes Attributes `json:"attributes"`
}

// UnitPrice is the price used for totals: the live product price when the
// snapshot carries one, otherwise the price captured at add time.
func (i CartItem) UnitPrice() float64 {
	if i.Product != nil && i.Product.Price > 0 {
		return i.Product.Price
	}
	return i.Price
}

// LineTotal is UnitPrice times Quantity.
func (i CartItem) LineTotal() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}

// Clone returns a deep copy of the item.
func (i CartItem) Clone() CartItem {
	i.Product = i.Product.clone()
	i.Attributes = i.Attributes.Clone()
	return i
}

// ClampQuantity bounds q to [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// quantity coerces a raw quantity, defaulting to 1 and clamping.
// Infinite values clamp like any other out-of-range number.
func quantity(v any) int {
	q := number(v)
	if q == 0 || math.IsNaN(q) {
		return 1
	}
	if q >= MaxQuantity {
		return MaxQuantity
	}
	if q <= MinQuantity {
		return MinQuantity
	}
	return ClampQuantity(int(math.Trunc(q)))
}

// CreateCartItem normalizes a raw cart line from the API or a persisted
// snapshot. It fails with a *CartValidationError when no product id can be
// resolved.
func CreateCartItem(raw Raw) (CartItem, error) {
	productID, ok := ResolveProductID(raw)
	if !ok {
		return CartItem{}, NewValidationError("cannot resolve productId", map[string]string{
			"productId": "cannot resolve productId",
		})
	}

	var product *Product
	if m, ok := asRaw(raw["product"]); ok {
		product = parseProduct(m, productID)
	}

	price := number(raw["price"])
	if math.IsNaN(price) || price == 0 {
		price = 0
		if product != nil {
			price = product.Price
		}
	}

	attrs, ok := attributes(raw["attributes"])
	if !ok {
		attrs, ok = attributes(raw["options"])
	}
	if !ok {
		attrs = Attributes{}
	}

	return CartItem{
		ProductID:  productID,
		Product:    product,
		Quantity:   quantity(raw["quantity"]),
		Price:      math.Max(0, price),
		Attributes: attrs,
	}, nil
}

// CatalogProductID reads the id of catalog product data: _id, id or
// productId on the product itself. Nested objects are not searched.
func CatalogProductID(productData Raw) (string, bool) {
	for _, key := range []string{"_id", "id", "productId"} {
		if id, ok := identifier(productData[key]); ok {
			return id, true
		}
	}
	return "", false
}

// CreateGuestCartItem builds a line straight from catalog product data,
// before any server has seen it. The id comes from CatalogProductID.
func CreateGuestCartItem(productData Raw, qty int, attrs Attributes) (CartItem, error) {
	productID, ok := CatalogProductID(productData)
	if !ok {
		return CartItem{}, NewValidationError("product data has no id", map[string]string{
			"productId": "required",
		})
	}

	product := parseProduct(productData, productID)
	if product.Name == "" {
		product.Name = DefaultProductName
	}
	if product.Stock == nil {
		stock := DefaultUntrackedStock
		product.Stock = &stock
	}
	if attrs == nil {
		attrs = Attributes{}
	}

	return CartItem{
		ProductID:  productID,
		Product:    product,
		Quantity:   ClampQuantity(qty),
		Price:      product.Price,
		Attributes: attrs.Clone(),
	}, nil
}

// parseProduct reads the catalog snapshot fields the cart cares about.
func parseProduct(m Raw, fallbackID string) *Product {
	p := &Product{
		ID:           fallbackID,
		Name:         str(m["name"]),
		Price:        amount(m["price"]),
		ComparePrice: amount(m["comparePrice"]),
		Slug:         str(m["slug"]),
		Rating:       amount(m["rating"]),
	}
	if id, ok := identifier(m["_id"]); ok {
		p.ID = id
	} else if id, ok := identifier(m["id"]); ok {
		p.ID = id
	}

	switch imgs := m["images"].(type) {
	case []string:
		p.Images = append(p.Images, imgs...)
	case []any:
		for _, img := range imgs {
			if s, ok := img.(string); ok && s != "" {
				p.Images = append(p.Images, s)
			} else if obj, ok := asRaw(img); ok && str(obj["url"]) != "" {
				p.Images = append(p.Images, str(obj["url"]))
			}
		}
	}
	if len(p.Images) == 0 {
		if img := str(m["image"]); img != "" {
			p.Images = []string{img}
		} else {
			p.Images = []string{}
		}
	}

	if s := number(m["stock"]); !math.IsNaN(s) {
		stock := int(math.Trunc(s))
		p.Stock = &stock
	}
	if track, ok := boolean(m["trackQuantity"]); ok {
		p.TrackQuantity = track
	} else {
		p.TrackQuantity = p.Stock != nil
	}

	switch c := m["category"].(type) {
	case string:
		p.Category = c
	default:
		if id, ok := ResolveProductID(c); ok {
			p.Category = id
		}
	}
	if featured, ok := boolean(m["featured"]); ok {
		p.Featured = featured
	}
	return p
}
