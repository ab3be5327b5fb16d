// Package menu partitions the catalog by category and tracks the visitor's active filter.
package menu

import (
	"strings"

	"vitranbakery.vn/bakery-web/internal/catalog"
)

// AllSlug is the URL value of the "all" pseudo-category.
const AllSlug = "all"

// Selection is either the All sentinel or a single category. A selection parsed from an
// unrecognised slug matches nothing.
type Selection struct {
	all      bool
	category catalog.Category
	slug     string
}

// All groups every category under its own heading.
var All = Selection{all: true, slug: AllSlug}

// Only selects a single category.
func Only(c catalog.Category) Selection {
	return Selection{category: c, slug: c.Slug()}
}

// ParseSelection maps a query value onto a selection. Empty and "all" mean All.
func ParseSelection(slug string) Selection {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || slug == AllSlug {
		return All
	}
	if c, ok := catalog.CategoryFromSlug(slug); ok {
		return Only(c)
	}
	return Selection{category: catalog.CategoryUnknown, slug: slug}
}

// IsAll reports whether s is the All sentinel.
func (s Selection) IsAll() bool { return s.all }

// Slug returns the URL form of the selection.
func (s Selection) Slug() string {
	if s.slug == "" {
		return AllSlug
	}
	return s.slug
}

// Category returns the selected category; ok is false for All and unmatched slugs.
func (s Selection) Category() (catalog.Category, bool) {
	if s.all || !s.category.Known() {
		return catalog.CategoryUnknown, false
	}
	return s.category, true
}

// Filter owns the active selection.
type Filter struct {
	active Selection
}

// NewFilter starts a filter at initial.
func NewFilter(initial Selection) *Filter {
	if initial == (Selection{}) {
		initial = All
	}
	return &Filter{active: initial}
}

// Active returns the current selection.
func (f *Filter) Active() Selection { return f.active }

// Select activates sel. Selecting the already-active value is a no-op and returns false.
func (f *Filter) Select(sel Selection) bool {
	if sel == (Selection{}) {
		sel = All
	}
	if sel == f.active {
		return false
	}
	f.active = sel
	return true
}

// Button is a filter bar entry.
type Button struct {
	Slug     string
	LabelKey string
	Label    string
	Active   bool
}

// Buttons returns All followed by the categories in display order.
func (f *Filter) Buttons() []Button {
	out := make([]Button, 0, len(catalog.DisplayOrder)+1)
	out = append(out, Button{
		Slug:     AllSlug,
		LabelKey: "menu.filter.all",
		Label:    "Tất cả",
		Active:   f.active.IsAll(),
	})
	for _, c := range catalog.DisplayOrder {
		cur, ok := f.active.Category()
		out = append(out, Button{
			Slug:     c.Slug(),
			LabelKey: c.LabelKey(),
			Label:    c.Label(),
			Active:   ok && cur == c,
		})
	}
	return out
}

// Section is one category heading in the grouped view.
type Section struct {
	Category catalog.Category
	Products []catalog.Product
}

// View is what the menu renders for a selection: grouped sections for All, a flat grid otherwise.
type View struct {
	Selection Selection
	Grouped   bool
	Sections  []Section
	Products  []catalog.Product
}

// Empty reports whether the view shows no products.
func (v View) Empty() bool { return len(v.Sections) == 0 && len(v.Products) == 0 }

// View partitions snap for the active selection. Categories without products are
// omitted from the grouped view; products with an unknown category never appear in it.
func (f *Filter) View(snap catalog.Snapshot) View {
	return BuildView(f.active, snap)
}

// BuildView is View without a Filter.
func BuildView(sel Selection, snap catalog.Snapshot) View {
	v := View{Selection: sel}
	if sel.IsAll() {
		v.Grouped = true
		for _, c := range catalog.DisplayOrder {
			products := snap.InCategory(c)
			if len(products) == 0 {
				continue
			}
			v.Sections = append(v.Sections, Section{Category: c, Products: products})
		}
		return v
	}
	if c, ok := sel.Category(); ok {
		v.Products = snap.InCategory(c)
	}
	return v
}
