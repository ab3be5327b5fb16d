package catalog

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Category is the closed set of menu groupings. Labels outside the set decode to
// CategoryUnknown so they can be reported instead of silently admitted.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryMooncake
	CategoryCake
	CategoryJelly
	CategoryPastry
)

// DisplayOrder is the order categories appear in the grouped menu and filter bar.
var DisplayOrder = []Category{CategoryMooncake, CategoryCake, CategoryJelly, CategoryPastry}

var categoryLabels = map[Category]string{
	CategoryMooncake: "Bánh Trung Thu",
	CategoryCake:     "Bánh Kem",
	CategoryJelly:    "Rau Câu",
	CategoryPastry:   "Bánh Ngọt",
}

var categorySlugs = map[Category]string{
	CategoryMooncake: "banh-trung-thu",
	CategoryCake:     "banh-kem",
	CategoryJelly:    "rau-cau",
	CategoryPastry:   "banh-ngot",
}

// ParseCategory maps a raw catalog label onto the closed category set.
func ParseCategory(label string) Category {
	label = norm.NFC.String(strings.TrimSpace(label))
	for c, l := range categoryLabels {
		if l == label {
			return c
		}
	}
	return CategoryUnknown
}

// CategoryFromSlug resolves a URL slug such as "banh-kem".
func CategoryFromSlug(slug string) (Category, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for c, s := range categorySlugs {
		if s == slug {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// Known reports whether c is one of the display categories.
func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the Vietnamese label used in the catalog source.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return "unknown"
}

// Slug returns the URL form of the category.
func (c Category) Slug() string {
	if s, ok := categorySlugs[c]; ok {
		return s
	}
	return "unknown"
}

// LabelKey is the i18n key for the category heading.
func (c Category) LabelKey() string { return "menu.category." + c.Slug() }

func (c Category) String() string { return c.Label() }
