package catalog

import (
	"strings"

	"github.com/utafrali/storefront/pkg/slug"
)

// Category is a product category of the upstream catalog. ID is the value
// the upstream API expects; Slug is a URL-safe alias clients may use instead.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

var categories = newCategories(
	[2]string{"electronics", "Electronics"},
	[2]string{"jewelery", "Jewelry"},
	[2]string{"men's clothing", "Men's Clothing"},
	[2]string{"women's clothing", "Women's Clothing"},
)

func newCategories(pairs ...[2]string) []Category {
	out := make([]Category, len(pairs))
	for i, p := range pairs {
		out[i] = Category{ID: p[0], Name: p[1], Slug: slug.Generate(p[0])}
	}
	return out
}

// Categories lists the categories offered in the storefront menu.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ResolveCategory maps a category id or slug to the upstream id. Unknown
// values are returned trimmed but otherwise unchanged.
func ResolveCategory(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	for _, c := range categories {
		if strings.EqualFold(v, c.ID) || v == c.Slug {
			return c.ID
		}
	}
	return v
}
