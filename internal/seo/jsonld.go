package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script marks a JSON payload safe for a <script type="application/ld+json"> body.
func Script(payload string) template.JS { return template.JS(payload) }

// PostalAddress is the schema.org address of the shop.
type PostalAddress struct {
	Street   string
	Locality string
	Region   string
	Postal   string
	Country  string
}

// Business describes the bakery for the Bakery schema.
type Business struct {
	Name         string
	URL          string
	Logo         string
	Image        string
	Email        string
	Telephone    string
	Address      PostalAddress
	OpeningHours []string
}

// Bakery returns a schema.org Bakery (LocalBusiness) payload.
func Bakery(b Business) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Bakery",
		"name":     b.Name,
	}
	if b.URL != "" {
		m["url"] = b.URL
	}
	if b.Logo != "" {
		m["logo"] = b.Logo
	}
	if b.Image != "" {
		m["image"] = b.Image
	}
	if b.Email != "" {
		m["email"] = b.Email
	}
	if b.Telephone != "" {
		m["telephone"] = b.Telephone
	}
	if b.Address != (PostalAddress{}) {
		addr := map[string]any{"@type": "PostalAddress"}
		setIf(addr, "streetAddress", b.Address.Street)
		setIf(addr, "addressLocality", b.Address.Locality)
		setIf(addr, "addressRegion", b.Address.Region)
		setIf(addr, "postalCode", b.Address.Postal)
		setIf(addr, "addressCountry", b.Address.Country)
		m["address"] = addr
	}
	if len(b.OpeningHours) > 0 {
		m["openingHours"] = b.OpeningHours
	}
	return m
}

// Product returns a minimal product schema payload.
func Product(name, description, url, imageURL, category string) map[string]any {
	m := map[string]any{
		"@type": "Product",
		"name":  name,
	}
	setIf(m, "description", description)
	setIf(m, "url", url)
	setIf(m, "image", imageURL)
	setIf(m, "category", category)
	return m
}

// ItemList wraps products in a schema.org ItemList in the given order.
func ItemList(name string, products []map[string]any) map[string]any {
	el := make([]map[string]any, 0, len(products))
	for i, p := range products {
		el = append(el, map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"item":     p,
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "ItemList",
		"name":            name,
		"numberOfItems":   len(el),
		"itemListElement": el,
	}
}

func setIf(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
