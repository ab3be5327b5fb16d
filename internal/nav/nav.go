package nav

import "strings"

// Item is an in-page section link.
type Item struct {
	Anchor   string // element id, e.g. "menu"
	LabelKey string // i18n key, e.g. "nav.menu"
	Label    string // default copy when the key is missing
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	Anchor   string
	LabelKey string
	Label    string
	Active   bool
}

// Main is the header navigation in page order.
var Main = []Item{
	{Anchor: "about", LabelKey: "nav.about", Label: "Câu Chuyện"},
	{Anchor: "menu", LabelKey: "nav.menu", Label: "Thực Đơn"},
	{Anchor: "testimonials", LabelKey: "nav.testimonials", Label: "Cảm Nhận"},
	{Anchor: "contact", LabelKey: "nav.contact", Label: "Liên Hệ"},
}

// Consultant links the AI widget; it is listed only when the widget renders.
var Consultant = Item{Anchor: "ai-consultant", LabelKey: "nav.consultant", Label: "Tư Vấn AI"}

// Options tune Build.
type Options struct {
	// Active marks the section the visitor navigated to, e.g. "menu" after filtering.
	Active string
	// WithConsultant appends the AI consultant link.
	WithConsultant bool
}

// Build renders the header links. Off the landing page the anchors are
// prefixed with "/" so they navigate home first.
func Build(currentPath string, opts Options) []RenderedItem {
	items := append([]Item(nil), Main...)
	if opts.WithConsultant {
		items = append(items, Consultant)
	}
	prefix := ""
	if currentPath != "" && currentPath != "/" {
		prefix = "/"
	}
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		out = append(out, RenderedItem{
			Href:     prefix + "#" + it.Anchor,
			Anchor:   it.Anchor,
			LabelKey: it.LabelKey,
			Label:    it.Label,
			Active:   strings.EqualFold(opts.Active, it.Anchor),
		})
	}
	return out
}

// HomeHref is the brand link target.
func HomeHref(currentPath string) string {
	if currentPath == "" || currentPath == "/" {
		return "#home"
	}
	return "/#home"
}
