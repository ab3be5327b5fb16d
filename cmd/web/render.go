package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitranbakery.vn/bakery-web/internal/format"
	mw "vitranbakery.vn/bakery-web/internal/middleware"
	"vitranbakery.vn/bakery-web/internal/observability"
	"vitranbakery.vn/bakery-web/internal/seo"
)

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
		"t": func(lang, key string) string {
			return i18nOrDefault(lang, key, key)
		},
		"fmtPrice":    format.FmtPriceShort,
		"fmtCurrency": format.FmtCurrency,
		"add":         func(a, b int) int { return a + b },
		"jsonLD":      seo.Script,
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func templates() (*template.Template, error) {
	if devMode {
		return parseTemplates()
	}
	if tmplCache == nil {
		return nil, fmt.Errorf("template not initialized")
	}
	return tmplCache, nil
}

// renderPage executes page_{name}. In dev mode, templates are reparsed on each request.
func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	renderTemplate(w, r, "page_"+name, data)
}

// renderTemplate executes a named template into a buffer so that a failing
// template never leaves a half-written response.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	t, err := templates()
	if err != nil {
		observability.FromContext(r.Context()).Error("template parse failed", zap.Error(err))
		http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		observability.FromContext(r.Context()).Error("template exec failed", zap.String("template", name), zap.Error(err))
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// i18nOrDefault returns the translation of key, or def when the bundle has none.
func i18nOrDefault(lang, key, def string) string {
	if i18nBundle == nil {
		return def
	}
	if v := i18nBundle.T(lang, key); v != "" && v != key {
		return v
	}
	return def
}

// siteBase is the configured site URL, or the request origin when none is set.
func siteBase(r *http.Request) string {
	if base := strings.TrimRight(appConfig.SiteURL, "/"); base != "" {
		return base
	}
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// absoluteURL resolves path against the site URL; an empty path means the request path.
func absoluteURL(r *http.Request, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		path = r.URL.Path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return siteBase(r) + path
}

// buildAlternates lists hreflang links for every supported language.
func buildAlternates(canonical string) []seo.Alternate {
	if i18nBundle == nil {
		return nil
	}
	out := make([]seo.Alternate, 0, len(i18nBundle.Supported())+1)
	for _, lang := range i18nBundle.Supported() {
		out = append(out, seo.Alternate{Lang: lang, Href: canonical + "?hl=" + lang})
	}
	out = append(out, seo.Alternate{Lang: "x-default", Href: canonical})
	return out
}

// isFragment reports whether the request wants a partial response.
func isFragment(r *http.Request) bool { return mw.IsHTMX(r.Context()) }
