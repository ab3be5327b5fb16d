package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUnavailable is returned when the catalog source cannot be fetched or decoded.
	ErrUnavailable = errors.New("catalog: unavailable")
	// ErrMalformed is returned when the payload is not a JSON array of menu items.
	ErrMalformed = errors.New("catalog: malformed payload")
)

// DefaultAssetRoot is the first path segment of product media URLs.
const DefaultAssetRoot = "images"

// videoExtensions lists file extensions rendered as <video>.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".webm": {},
}

// RawItem mirrors one entry of menu-data.json.
type RawItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageFiles  []string `json:"imageFiles"`
	Folder      string   `json:"folder"`
}

// MediaKind distinguishes still images from short looping videos.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is a resolved image or video belonging to a product.
type MediaItem struct {
	URL  string
	Kind MediaKind
}

// IsVideo reports whether the item renders as a video element.
func (m MediaItem) IsVideo() bool { return m.Kind == MediaVideo }

// Product is a normalized catalog entry. Media always holds at least one item.
type Product struct {
	Name        string
	Slug        string
	Description string
	Category    Category
	Media       []MediaItem
}

// Cover returns the first media item.
func (p Product) Cover() MediaItem { return p.Media[0] }

// Snapshot is the ordered, read-only catalog for one load.
type Snapshot struct {
	products []Product
	byName   map[string]int
	bySlug   map[string]int
}

// Len returns the number of products.
func (s Snapshot) Len() int { return len(s.products) }

// Empty reports whether no products were loaded.
func (s Snapshot) Empty() bool { return len(s.products) == 0 }

// Products returns a copy of the products in source order.
func (s Snapshot) Products() []Product {
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, cloneProduct(p))
	}
	return out
}

// InCategory returns the products of c in source order.
func (s Snapshot) InCategory(c Category) []Product {
	var out []Product
	for _, p := range s.products {
		if p.Category == c {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

// Names lists product names in source order.
func (s Snapshot) Names() []string {
	out := make([]string, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p.Name)
	}
	return out
}

// ByName finds a product by exact name. Both sides are compared in NFC so that
// composed and decomposed Vietnamese diacritics match.
func (s Snapshot) ByName(name string) (Product, bool) {
	i, ok := s.byName[norm.NFC.String(name)]
	if !ok {
		return Product{}, false
	}
	return cloneProduct(s.products[i]), true
}

// BySlug finds a product by its URL slug.
func (s Snapshot) BySlug(slug string) (Product, bool) {
	i, ok := s.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Product{}, false
	}
	return cloneProduct(s.products[i]), true
}

// RejectedItem describes a raw record dropped at ingestion.
type RejectedItem struct {
	Index  int
	Name   string
	Reason string
}

// Report summarises ingestion problems for logging.
type Report struct {
	Rejected          []RejectedItem
	UnknownCategories []string
}

// Clean reports whether every raw record was admitted with a known category.
func (r Report) Clean() bool { return len(r.Rejected) == 0 && len(r.UnknownCategories) == 0 }

// Decode parses the raw catalog payload.
func Decode(payload []byte) ([]RawItem, error) {
	var items []RawItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return items, nil
}

// Normalize validates raw records and resolves their media URLs under assetRoot.
func Normalize(raw []RawItem, assetRoot string) (Snapshot, Report) {
	if strings.TrimSpace(assetRoot) == "" {
		assetRoot = DefaultAssetRoot
	}
	snap := Snapshot{
		byName: map[string]int{},
		bySlug: map[string]int{},
	}
	var report Report
	for i, item := range raw {
		name := norm.NFC.String(strings.TrimSpace(item.Name))
		if name == "" {
			report.Rejected = append(report.Rejected, RejectedItem{Index: i, Reason: "missing name"})
			continue
		}
		if _, dup := snap.byName[name]; dup {
			report.Rejected = append(report.Rejected, RejectedItem{Index: i, Name: name, Reason: "duplicate name"})
			continue
		}
		media := make([]MediaItem, 0, len(item.ImageFiles))
		for _, file := range item.ImageFiles {
			file = strings.TrimSpace(file)
			if file == "" {
				continue
			}
			media = append(media, MediaItem{
				URL:  MediaURL(assetRoot, item.Folder, file),
				Kind: ClassifyMedia(file),
			})
		}
		if len(media) == 0 {
			report.Rejected = append(report.Rejected, RejectedItem{Index: i, Name: name, Reason: "no media files"})
			continue
		}
		category := ParseCategory(item.Category)
		if !category.Known() {
			report.UnknownCategories = append(report.UnknownCategories, item.Category)
		}
		p := Product{
			Name:        name,
			Slug:        uniqueSlug(snap.bySlug, Slugify(name)),
			Description: strings.TrimSpace(item.Description),
			Category:    category,
			Media:       media,
		}
		snap.byName[name] = len(snap.products)
		snap.bySlug[p.Slug] = len(snap.products)
		snap.products = append(snap.products, p)
	}
	return snap, report
}

// ClassifyMedia decides image vs video from the file extension.
func ClassifyMedia(file string) MediaKind {
	if _, ok := videoExtensions[strings.ToLower(path.Ext(file))]; ok {
		return MediaVideo
	}
	return MediaImage
}

// MediaURL builds /{assetRoot}/{folder}/{file} with each segment path-escaped.
func MediaURL(assetRoot, folder, file string) string {
	segments := []string{strings.Trim(assetRoot, "/")}
	for _, seg := range strings.Split(strings.Trim(folder, "/"), "/") {
		if seg != "" {
			segments = append(segments, url.PathEscape(seg))
		}
	}
	segments = append(segments, url.PathEscape(file))
	return "/" + strings.Join(segments, "/")
}

func uniqueSlug(taken map[string]int, base string) string {
	if base == "" {
		base = "item"
	}
	slug := base
	for n := 2; ; n++ {
		if _, ok := taken[slug]; !ok {
			return slug
		}
		slug = base + "-" + strconv.Itoa(n)
	}
}

func cloneProduct(p Product) Product {
	cp := p
	cp.Media = append([]MediaItem(nil), p.Media...)
	return cp
}
