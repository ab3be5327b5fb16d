package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vitranbakery.vn/bakery-web/internal/catalog"
	"vitranbakery.vn/bakery-web/internal/cms"
	"vitranbakery.vn/bakery-web/internal/handlers"
	"vitranbakery.vn/bakery-web/internal/menu"
	mw "vitranbakery.vn/bakery-web/internal/middleware"
	"vitranbakery.vn/bakery-web/internal/observability"
	"vitranbakery.vn/bakery-web/internal/seo"
)

// HomeHandler renders the single landing page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	renderHome(w, r, nil)
}

// renderHome assembles the page. cv carries a consultation outcome when the
// form was posted without HTMX.
func renderHome(w http.ResponseWriter, r *http.Request, cv *ConsultView) {
	ctx := r.Context()
	lang := mw.Lang(r)
	log := observability.FromContext(ctx)

	sess := mw.GetSession(r)
	f := menu.NewFilter(menu.ParseSelection(sess.MenuCategory))
	if q := r.URL.Query(); q.Has("category") {
		f.Select(menu.ParseSelection(q.Get("category")))
		persistSelection(sess, f.Active())
	}

	snap, catErr := catalogLoader.Load(ctx)
	menuView := unavailableMenuView(lang)
	if catErr != nil {
		log.Warn("catalog load failed", zap.Error(catErr))
	} else {
		menuView = buildMenuView(lang, f, snap)
	}

	site, err := cmsClient.GetSite(lang)
	if err != nil {
		log.Warn("site content missing", zap.String("lang", lang), zap.Error(err))
	}

	showConsult := consultant.Enabled() && catErr == nil && !snap.Empty()
	data := handlers.BuildHomeData(lang, "/", site, showConsult)
	data.Langs = i18nBundle.Supported()
	data.Analytics = handlers.AnalyticsFromConfig(appConfig.Analytics)
	data.CSRFToken = mw.CSRFToken(r)
	data.Hero = loadSection(ctx, "hero", lang)
	data.About = loadSection(ctx, "about", lang)
	data.Mooncake = loadSection(ctx, "mooncake", lang)
	data.Menu = menuView
	if showConsult {
		if cv == nil {
			cv = newConsultView(r)
		}
		data.Consult = cv
	}
	data.SEO = buildHomeSEO(r, data, snap)

	renderPage(w, r, "home", data)
}

// SectionFrag renders one copy section; used when the language is switched in place.
func SectionFrag(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sec, err := cmsClient.GetSection(r.Context(), chi.URLParam(r, "slug"), lang)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		observability.FromContext(r.Context()).Error("section load failed", zap.Error(err))
		http.Error(w, "section unavailable", http.StatusInternalServerError)
		return
	}
	renderTemplate(w, r, "frag_section", struct {
		Lang    string
		Section cms.Section
	}{Lang: lang, Section: sec})
}

func loadSection(ctx context.Context, slug, lang string) cms.Section {
	sec, err := cmsClient.GetSection(ctx, slug, lang)
	if err != nil {
		observability.FromContext(ctx).Warn("section missing", zap.String("slug", slug), zap.String("lang", lang), zap.Error(err))
		return cms.Section{Slug: slug, Lang: lang}
	}
	return sec
}

var ogLocales = map[string]string{"vi": "vi_VN", "en": "en_US"}

func buildHomeSEO(r *http.Request, data handlers.HomeData, snap catalog.Snapshot) seo.Meta {
	canonical := absoluteURL(r, "/")
	title := data.Title
	if tagline := data.Site.Brand.Tagline; tagline != "" {
		title += " | " + tagline
	}
	desc := data.Hero.Summary
	if desc == "" {
		desc = data.About.Summary
	}
	image := ""
	if data.Hero.Image != "" {
		image = absoluteURL(r, data.Hero.Image)
	}

	meta := seo.Meta{
		Title:       title,
		Description: desc,
		Canonical:   canonical,
		OG: seo.OpenGraph{
			URL:         canonical,
			SiteName:    data.Title,
			Title:       title,
			Description: desc,
			Image:       image,
			Type:        "website",
			Locale:      ogLocales[data.Lang],
		},
		Twitter:    seo.Twitter{Card: "summary_large_image", Image: image},
		Alternates: buildAlternates(canonical),
	}

	contact := data.Site.Contact
	business := seo.Business{
		Name:         data.Title,
		URL:          canonical,
		Image:        image,
		Email:        contact.Email,
		Telephone:    contact.Phone,
		OpeningHours: contact.Hours,
		Address: seo.PostalAddress{
			Street:  strings.Join(contact.AddressLines, ", "),
			Country: "VN",
		},
	}
	if data.Site.Brand.Logo != "" {
		business.Logo = absoluteURL(r, data.Site.Brand.Logo)
	}
	meta.JSONLD = append(meta.JSONLD, seo.JSON(seo.Bakery(business)))

	if !snap.Empty() {
		products := make([]map[string]any, 0, snap.Len())
		for _, p := range snap.Products() {
			cover := p.Cover()
			img := ""
			if !cover.IsVideo() {
				img = absoluteURL(r, cover.URL)
			}
			products = append(products, seo.Product(p.Name, p.Description, canonical+"#menu", img, p.Category.Label()))
		}
		meta.JSONLD = append(meta.JSONLD, seo.JSON(seo.ItemList(i18nOrDefault(data.Lang, "menu.title", "Thực Đơn"), products)))
	}
	return meta
}
