package main

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vitranbakery.vn/bakery-web/internal/carousel"
	"vitranbakery.vn/bakery-web/internal/catalog"
	"vitranbakery.vn/bakery-web/internal/menu"
	mw "vitranbakery.vn/bakery-web/internal/middleware"
	"vitranbakery.vn/bakery-web/internal/observability"
)

// MenuFilterHandler switches the active category. HTMX requests receive the
// re-rendered grid; plain requests are redirected to the menu anchor.
func MenuFilterHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)
	f := menu.NewFilter(menu.ParseSelection(sess.MenuCategory))
	f.Select(menu.ParseSelection(r.URL.Query().Get("category")))
	persistSelection(sess, f.Active())

	target := menuURL(f.Active())
	if !isFragment(r) {
		http.Redirect(w, r, target+"#menu", http.StatusSeeOther)
		return
	}

	view := loadMenuView(r, lang, f)
	mw.PushURL(w, target)
	renderTemplate(w, r, "frag_menu", view)
}

// CarouselFrag advances a card carousel and re-renders it.
// Query: i (current index), op (next|prev|goto), to (goto target).
func CarouselFrag(w http.ResponseWriter, r *http.Request) {
	p, ok := productFromRequest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	c, err := carousel.At(len(p.Media), atoiDefault(q.Get("i"), 0))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c.Apply(q.Get("op"), atoiDefault(q.Get("to"), -1))
	renderTemplate(w, r, "frag_carousel", buildSlideView(mw.Lang(r), p, c))
}

// ViewerFrag opens the full-screen viewer or moves it.
// Query: i (current index), op (next|prev|drag), dx/vx (drag offset in px and velocity in px/s).
func ViewerFrag(w http.ResponseWriter, r *http.Request) {
	p, ok := productFromRequest(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	v, err := carousel.NewViewer(len(p.Media))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !v.Open(atoiDefault(q.Get("i"), 0)) {
		v.Open(0)
	}
	switch q.Get("op") {
	case carousel.OpNext:
		v.Next()
	case carousel.OpPrevious:
		v.Previous()
	case "drag":
		v.Drag(carousel.Gesture{
			OffsetX:   floatDefault(q.Get("dx")),
			VelocityX: floatDefault(q.Get("vx")),
		})
	}
	renderTemplate(w, r, "frag_viewer", buildViewerView(mw.Lang(r), p, v))
}

// ViewerCloseHandler empties the viewer mount.
func ViewerCloseHandler(w http.ResponseWriter, r *http.Request) {
	if !isFragment(r) {
		http.Redirect(w, r, "/#menu", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// MenuDataHandler serves the raw catalog document so the page and external
// tools read the same source.
func MenuDataHandler(w http.ResponseWriter, r *http.Request) {
	src := catalogSource(appConfig.Catalog)
	body, err := src.Fetch(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("menu data unavailable", zap.Error(err))
		http.Error(w, "menu data unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(body)
}

// loadMenuView renders the grid for f, or the unavailable notice when the catalog fails to load.
func loadMenuView(r *http.Request, lang string, f *menu.Filter) MenuView {
	snap, err := catalogLoader.Load(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("catalog load failed", zap.Error(err))
		return unavailableMenuView(lang)
	}
	return buildMenuView(lang, f, snap)
}

func productFromRequest(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	snap, err := catalogLoader.Load(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("catalog load failed", zap.Error(err))
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return catalog.Product{}, false
	}
	p, ok := snap.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		http.NotFound(w, r)
		return catalog.Product{}, false
	}
	return p, true
}

// persistSelection stores All or a known category on the session. Unmatched
// slugs are shown for this response only.
func persistSelection(sess *mw.SessionData, sel menu.Selection) {
	if sel.IsAll() {
		sess.SetMenuCategory("")
		return
	}
	if c, ok := sel.Category(); ok {
		sess.SetMenuCategory(c.Slug())
	}
}

func menuURL(sel menu.Selection) string {
	if sel.IsAll() {
		return "/"
	}
	return "/?category=" + url.QueryEscape(sel.Slug())
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func floatDefault(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
