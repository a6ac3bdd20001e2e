package domain

// CartLine is a product snapshot paired with the quantity held in the cart.
// It serializes flat: the product fields plus "quantity".
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price times quantity for the line.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Cart is an ordered list of lines, in the order products were first added.
// At most one line exists per product ID and every quantity is at least 1.
//
// Methods never modify the receiver; transitions return a new Cart.
type Cart []CartLine

// Find returns the index of the line for productID, or -1.
func (c Cart) Find(productID int64) int {
	for i := range c {
		if c[i].ID == productID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line or appends a new line
// with quantity 1. The snapshot of an existing line is kept as first added.
func (c Cart) Add(p Product) Cart {
	next := c.clone()
	if i := next.Find(p.ID); i >= 0 {
		next[i].Quantity++
		return next
	}
	return append(next, CartLine{Product: p, Quantity: 1})
}

// Remove drops the line for productID. Absent IDs leave the cart unchanged.
func (c Cart) Remove(productID int64) Cart {
	next := make(Cart, 0, len(c))
	for _, line := range c {
		if line.ID != productID {
			next = append(next, line)
		}
	}
	return next
}

// SetQuantity sets the quantity of the line for productID to exactly qty.
// A qty of zero or less removes the line.
func (c Cart) SetQuantity(productID int64, qty int) Cart {
	if qty <= 0 {
		return c.Remove(productID)
	}
	next := c.clone()
	if i := next.Find(productID); i >= 0 {
		next[i].Quantity = qty
	}
	return next
}

// TotalPrice returns the sum of price * quantity over all lines.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, line := range c {
		total += line.LineTotal()
	}
	return total
}

// TotalItems returns the sum of quantities over all lines.
func (c Cart) TotalItems() int {
	var count int
	for _, line := range c {
		count += line.Quantity
	}
	return count
}

// Normalize drops lines that break the cart invariants: non-positive
// quantities and repeated product IDs (the first occurrence wins). It is
// applied to carts restored from storage.
func (c Cart) Normalize() Cart {
	next := make(Cart, 0, len(c))
	seen := make(map[int64]struct{}, len(c))
	for _, line := range c {
		if line.Quantity <= 0 {
			continue
		}
		if _, dup := seen[line.ID]; dup {
			continue
		}
		seen[line.ID] = struct{}{}
		next = append(next, line)
	}
	return next
}

func (c Cart) clone() Cart {
	next := make(Cart, len(c), len(c)+1)
	copy(next, c)
	return next
}
