package cart

// ResolveProductID extracts the canonical product identifier from an
// item envelope, a product, or a persisted cart line. The first id found
// wins, in this order: product._id, product.id, productId, _id, id.
//
// Every caller that needs a product identifier from a raw payload goes
// through here.
func ResolveProductID(raw any) (string, bool) {
	m, ok := asRaw(raw)
	if !ok {
		return "", false
	}

	if product, ok := asRaw(m["product"]); ok {
		if id, ok := identifier(product["_id"]); ok {
			return id, true
		}
		if id, ok := identifier(product["id"]); ok {
			return id, true
		}
	}
	for _, key := range []string{"productId", "_id", "id"} {
		if id, ok := identifier(m[key]); ok {
			return id, true
		}
	}
	return "", false
}
