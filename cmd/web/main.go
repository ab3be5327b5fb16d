package main

import (
	"context"
	"errors"
	"flag"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vitranbakery.vn/bakery-web/internal/catalog"
	"vitranbakery.vn/bakery-web/internal/cms"
	"vitranbakery.vn/bakery-web/internal/config"
	"vitranbakery.vn/bakery-web/internal/consult"
	"vitranbakery.vn/bakery-web/internal/i18n"
	mw "vitranbakery.vn/bakery-web/internal/middleware"
	"vitranbakery.vn/bakery-web/internal/observability"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	// devMode is set in main() from BAKERY_WEB_DEV (preferred) or DEV
	devMode   bool
	tmplCache *template.Template

	appConfig     config.Config
	logger        = zap.NewNop()
	i18nBundle    *i18n.Bundle
	cmsClient     *cms.Client
	catalogLoader *catalog.Loader
	consultant    = consult.New(nil)
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not configured yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	var (
		addr     string
		tmplPath string
		pubPath  string
	)
	flag.StringVar(&addr, "addr", cfg.Server.Addr(), "HTTP listen address")
	flag.StringVar(&tmplPath, "templates", cfg.Paths.Templates, "templates directory")
	flag.StringVar(&pubPath, "public", cfg.Paths.Public, "public assets directory")
	flag.Parse()

	templatesDir = tmplPath
	publicDir = pubPath
	devMode = cfg.DevMode
	appConfig = cfg

	logger, err = observability.NewLogger(devMode)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := setup(ctx, cfg); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return reloadCatalogOn(gctx, hup) })
	g.Go(func() error {
		logger.Info("web listening",
			zap.String("addr", addr),
			zap.Bool("dev_mode", devMode),
			zap.String("catalog", cfg.Catalog.URL),
			zap.Bool("consultant", consultant.Enabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// reloadCatalogOn drops the cached catalog each time sig fires, so the next request refetches it.
func reloadCatalogOn(ctx context.Context, sig <-chan os.Signal) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sig:
			catalogLoader.Invalidate()
			logger.Info("catalog cache invalidated")
		}
	}
}

// setup wires the package-level dependencies used by the handlers.
func setup(ctx context.Context, cfg config.Config) error {
	if ephemeral := mw.ConfigureSessions(cfg.Session.SigningKey, cfg.Session.Secure); ephemeral {
		logger.Warn("session: using ephemeral signing key; set BAKERY_WEB_SESSION_SIGNING_KEY for production")
	}

	bundle, err := i18n.Load(cfg.Paths.Locales, cfg.Locale, []string{"vi", "en"})
	if err != nil {
		return err
	}
	i18nBundle = bundle

	cmsClient = cms.NewClient(cfg.CMS.BaseURL, logger.Named("cms"))
	cmsClient.SetContentDir(cfg.Paths.Content)

	catalogLoader = catalog.NewLoader(catalogSource(cfg.Catalog), cfg.Catalog.AssetRoot,
		catalog.WithCacheTTL(cfg.Catalog.CacheTTL),
		catalog.WithLogger(logger.Named("catalog")))

	if cfg.Gemini.Enabled() {
		gen, err := consult.NewGeminiGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		logger.Info("consultant enabled", zap.String("model", gen.Model()))
		consultant = consult.New(gen, consult.WithLogger(logger.Named("consult")))
	} else {
		logger.Info("consultant disabled: no Gemini API key configured")
		consultant = consult.New(nil)
	}

	if !devMode {
		// Parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			return err
		}
		tmplCache = tc
	}
	return nil
}

func catalogSource(cfg config.CatalogConfig) catalog.Source {
	src := catalog.NewSource(cfg.URL)
	if httpSrc, ok := src.(*catalog.HTTPSource); ok {
		return catalog.NewHTTPSource(httpSrc.String(), &http.Client{Timeout: cfg.FetchTimeout})
	}
	return src
}

// newRouter mounts middleware and routes.
func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	// If deployed behind a trusted reverse proxy/load balancer, RealIP will use
	// X-Forwarded-For to determine the client IP. Ensure only trusted proxies
	// can set these headers in production environments.
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Static assets and product media
	r.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets"), 7*24*time.Hour)))
	r.Handle("/images/*", http.StripPrefix("/images", mw.AssetsWithCache(filepath.Join(publicDir, "images"), 24*time.Hour)))
	r.Get("/menu-data.json", MenuDataHandler)

	r.Group(func(r chi.Router) {
		r.Use(mw.Session)
		r.Use(mw.Locale(i18nBundle))
		r.Use(mw.CSRF)
		r.Use(mw.VaryLocale)

		r.Get("/", HomeHandler)
		r.Get("/sections/{slug}", SectionFrag)
		r.Get("/menu", MenuFilterHandler)
		r.Route("/menu/products/{slug}", func(r chi.Router) {
			r.Get("/slides", CarouselFrag)
			r.Get("/viewer", ViewerFrag)
			r.Get("/viewer/close", ViewerCloseHandler)
		})
		r.Post("/consult", ConsultHandler)
	})
	return r
}
