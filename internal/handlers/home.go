package handlers

import (
	"vitranbakery.vn/bakery-web/internal/cms"
	"vitranbakery.vn/bakery-web/internal/nav"
	"vitranbakery.vn/bakery-web/internal/seo"
)

// HomeData is the view model for the landing page.
type HomeData struct {
	Title     string
	Lang      string
	Langs     []string
	SEO       seo.Meta
	Analytics Analytics
	CSRFToken string

	// Common layout fields
	Path     string
	HomeHref string
	Nav      []nav.RenderedItem

	Hero     cms.Section
	About    cms.Section
	Mooncake cms.Section
	Site     cms.Site

	// Menu is the filterable product grid; see MenuView in cmd/web.
	Menu any
	// Consult is nil when the consultant is hidden.
	Consult any
}

// BuildHomeData constructs the layout skeleton of the landing page.
func BuildHomeData(lang, path string, site cms.Site, withConsultant bool) HomeData {
	title := site.Brand.Name
	if title == "" {
		title = "Vi Trần Handmade"
	}
	return HomeData{
		Title:    title,
		Lang:     lang,
		Path:     path,
		HomeHref: nav.HomeHref(path),
		Nav:      nav.Build(path, nav.Options{WithConsultant: withConsultant}),
		Site:     site,
	}
}
