package main

import (
	"fmt"
	"net/url"
	"strconv"

	"vitranbakery.vn/bakery-web/internal/carousel"
	"vitranbakery.vn/bakery-web/internal/catalog"
	"vitranbakery.vn/bakery-web/internal/menu"
)

// MenuView is the filter bar plus product grid.
type MenuView struct {
	Lang        string
	Active      string
	Buttons     []menu.Button
	Grouped     bool
	Sections    []MenuSectionView
	Cards       []ProductCardView
	Empty       bool
	Unavailable bool
}

// MenuSectionView is one category heading of the grouped grid.
type MenuSectionView struct {
	Slug  string
	Title string
	Cards []ProductCardView
}

// ProductCardView renders one product card with its carousel.
type ProductCardView struct {
	Lang          string
	Name          string
	Slug          string
	Description   string
	CategoryLabel string
	Slide         SlideView
}

// SlideView is the current carousel slide of a card.
type SlideView struct {
	Lang         string
	ProductSlug  string
	ProductName  string
	Index        int
	Len          int
	Media        catalog.MediaItem
	Presentation carousel.Presentation
	HasControls  bool
	PrevURL      string
	NextURL      string
	Dots         []DotView
	ViewerURL    string
}

// DotView is one slide indicator.
type DotView struct {
	Index  int
	Label  int
	Active bool
	URL    string
}

// ViewerView is the open full-screen viewer.
type ViewerView struct {
	Lang         string
	ProductSlug  string
	ProductName  string
	Index        int
	Len          int
	Position     int
	Media        catalog.MediaItem
	Presentation carousel.Presentation
	HasControls  bool
	PrevURL      string
	NextURL      string
	DragURL      string
	CloseURL     string
}

func productBase(slug string) string { return "/menu/products/" + url.PathEscape(slug) }

func slidesURL(slug string, index int, op string) string {
	q := url.Values{}
	q.Set("i", strconv.Itoa(index))
	q.Set("op", op)
	if op == carousel.OpGoTo {
		q.Del("i")
		q.Set("to", strconv.Itoa(index))
	}
	return productBase(slug) + "/slides?" + q.Encode()
}

func viewerURL(slug string, index int, op string) string {
	q := url.Values{}
	q.Set("i", strconv.Itoa(index))
	if op != "" {
		q.Set("op", op)
	}
	return productBase(slug) + "/viewer?" + q.Encode()
}

// buildSlideView renders the carousel of p at c's current slide.
func buildSlideView(lang string, p catalog.Product, c *carousel.Carousel) SlideView {
	media := p.Media[c.Index()]
	v := SlideView{
		Lang:         lang,
		ProductSlug:  p.Slug,
		ProductName:  p.Name,
		Index:        c.Index(),
		Len:          c.Len(),
		Media:        media,
		Presentation: carousel.InlinePresentation(media.Kind),
		HasControls:  c.HasControls(),
		ViewerURL:    viewerURL(p.Slug, c.Index(), ""),
	}
	if v.HasControls {
		v.PrevURL = slidesURL(p.Slug, c.Index(), carousel.OpPrevious)
		v.NextURL = slidesURL(p.Slug, c.Index(), carousel.OpNext)
		v.Dots = make([]DotView, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			v.Dots = append(v.Dots, DotView{
				Index:  i,
				Label:  i + 1,
				Active: i == c.Index(),
				URL:    slidesURL(p.Slug, i, carousel.OpGoTo),
			})
		}
	}
	return v
}

// buildViewerView renders the open viewer of p.
func buildViewerView(lang string, p catalog.Product, v *carousel.Viewer) ViewerView {
	media := p.Media[v.Index()]
	out := ViewerView{
		Lang:         lang,
		ProductSlug:  p.Slug,
		ProductName:  p.Name,
		Index:        v.Index(),
		Len:          v.Len(),
		Position:     v.Index() + 1,
		Media:        media,
		Presentation: carousel.ViewerPresentation(media.Kind),
		HasControls:  v.HasControls(),
		DragURL:      viewerURL(p.Slug, v.Index(), "drag"),
		CloseURL:     productBase(p.Slug) + "/viewer/close",
	}
	if out.HasControls {
		out.PrevURL = viewerURL(p.Slug, v.Index(), carousel.OpPrevious)
		out.NextURL = viewerURL(p.Slug, v.Index(), carousel.OpNext)
	}
	return out
}

func buildProductCard(lang string, p catalog.Product) (ProductCardView, error) {
	c, err := carousel.New(len(p.Media))
	if err != nil {
		return ProductCardView{}, fmt.Errorf("product %q: %w", p.Name, err)
	}
	return ProductCardView{
		Lang:          lang,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		CategoryLabel: i18nOrDefault(lang, p.Category.LabelKey(), p.Category.Label()),
		Slide:         buildSlideView(lang, p, c),
	}, nil
}

func buildCards(lang string, products []catalog.Product) []ProductCardView {
	cards := make([]ProductCardView, 0, len(products))
	for _, p := range products {
		card, err := buildProductCard(lang, p)
		if err != nil {
			// Normalize never admits products without media
			continue
		}
		cards = append(cards, card)
	}
	return cards
}

// buildMenuView renders the filter bar and grid for sel.
func buildMenuView(lang string, f *menu.Filter, snap catalog.Snapshot) MenuView {
	buttons := f.Buttons()
	for i := range buttons {
		buttons[i].Label = i18nOrDefault(lang, buttons[i].LabelKey, buttons[i].Label)
	}
	view := f.View(snap)
	out := MenuView{
		Lang:    lang,
		Active:  f.Active().Slug(),
		Buttons: buttons,
		Grouped: view.Grouped,
		Empty:   view.Empty(),
	}
	for _, s := range view.Sections {
		out.Sections = append(out.Sections, MenuSectionView{
			Slug:  s.Category.Slug(),
			Title: i18nOrDefault(lang, s.Category.LabelKey(), s.Category.Label()),
			Cards: buildCards(lang, s.Products),
		})
	}
	if !view.Grouped {
		out.Cards = buildCards(lang, view.Products)
	}
	return out
}

func unavailableMenuView(lang string) MenuView {
	return MenuView{Lang: lang, Active: menu.AllSlug, Unavailable: true, Empty: true}
}
