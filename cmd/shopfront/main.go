package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	html "github.com/gofiber/template/html/v2"
	"golang.org/x/sync/errgroup"

	"shopfront/internal/cache"
	"shopfront/internal/config"
	"shopfront/internal/events"
	"shopfront/internal/http/handlers"
	applog "shopfront/internal/log"
	"shopfront/internal/media"
	"shopfront/internal/notify"
	"shopfront/internal/repos"
	"shopfront/internal/theme"
	"shopfront/internal/view"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
			applog.SetOutput(mw)
		}
	}

	db, err := repos.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	perms, err := config.LoadPermissionConfig(cfg.PermissionsFile)
	if err != nil {
		log.Fatalf("[permissions] %v", err)
	}

	// Themes: every generic template must exist before we serve anything.
	reg, err := theme.NewRegistry(os.DirFS(cfg.TemplatesDir), ".html", theme.Shipped)
	if err != nil {
		log.Fatal(err)
	}
	resolver := theme.NewResolver(reg)

	cld := media.NewCloudinary(cfg.CloudinaryURL)
	images := media.NewResolver(cld, cfg.MediaBaseURL, cfg.PlaceholderURL)

	engine := html.New(cfg.TemplatesDir, ".html")
	engine.AddFuncMap(view.Funcs(images, perms))

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	deps := handlers.NewDeps(db, cfg, handlers.Infra{
		Cache:    cache.New(cfg.RedisAddr, cfg.RedisPassword, "shopfront:"),
		Events:   publisher,
		Mailer:   notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom),
		Uploader: media.NewUploader(cld, cfg.MediaDir),
		Perms:    perms,
		Resolver: resolver,
		Views:    engine,
	})
	app := handlers.NewApp(cfg, engine, deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PermissionsFile != "" {
		if err := perms.Watch(cfg.PermissionsFile, ctx.Done()); err != nil {
			applog.Error(nil, "permissions.watch.fail", err, map[string]any{"file": cfg.PermissionsFile})
		}
	}

	// Settings below are read once at startup; say so when the file moves.
	config.Watch(os.Getenv("CONFIG_FILE"), func(next config.Config) {
		if keys := config.Changed(cfg, next); len(keys) > 0 {
			applog.Info(nil, "config.restart_required", map[string]any{"keys": keys})
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("[http] listening on :%s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("[http] shutting down")
		return app.Shutdown()
	})
	if err := g.Wait(); err != nil {
		log.Printf("[http] %v", err)
	}
}
