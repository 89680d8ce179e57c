package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agency-backend/internal/auth"
	"agency-backend/internal/blog"
	"agency-backend/internal/cache"
	"agency-backend/internal/calendar"
	"agency-backend/internal/casestudies"
	"agency-backend/internal/config"
	"agency-backend/internal/content"
	"agency-backend/internal/db"
	"agency-backend/internal/events"
	"agency-backend/internal/handlers"
	"agency-backend/internal/jobs"
	"agency-backend/internal/leads"
	"agency-backend/internal/logging"
	"agency-backend/internal/middleware"
	"agency-backend/internal/notifications"
	"agency-backend/internal/repurpose"
	"agency-backend/internal/seo"
	"agency-backend/internal/targeting"
	"agency-backend/internal/training"
	"agency-backend/internal/validation"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, closer := logging.New(cfg)
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected", slog.String("db", cfg.MongoDB))
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	checks := map[string]handlers.Check{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}

	var cacheStore cache.Cache = cache.NewMemory()
	switch {
	case cfg.CacheTTLSeconds <= 0:
		logger.Info("response cache disabled")
		cacheStore = cache.NewNoop()
	case cfg.RedisURL != "" || cfg.RedisAddr != "":
		var redisCache *cache.RedisCache
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisCache.Close()
		logger.Info("redis connected")
		cacheStore = redisCache
		checks["redis"] = redisCache.Ping
	default:
		logger.Info("redis not configured, using in-memory cache")
	}
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	passwords, err := auth.NewPasswordChecker(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		logger.Error("admin password hash invalid", slog.String("error", err.Error()))
		os.Exit(1)
	}
	var jwtManager *auth.Manager
	if cfg.JWTSecret != "" {
		jwtManager = &auth.Manager{
			Secret:     []byte(cfg.JWTSecret),
			AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
			RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
			Issuer:     "agency-backend",
		}
	}
	if !cfg.AdminAuthConfigured() {
		logger.Warn("admin auth not configured; admin routes will answer 503")
	}
	admin := middleware.AdminAuth(passwords, jwtManager)

	mailer := notifications.NewFallback(
		notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox),
		notifications.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom),
	)
	logger.Info("mailer", slog.String("providers", mailer.Name()))

	catalog, err := content.Load()
	if err != nil {
		logger.Error("content catalog load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	site := seo.Site{Name: cfg.SiteName, URL: cfg.SiteURL, Logo: cfg.SiteURL + "/logo.png"}
	val := validation.New()

	blogService := blog.NewService(blog.NewRepository(cols.BlogPosts), site, cfg.Timezone)
	caseStudiesService := casestudies.NewService(casestudies.NewRepository(cols.CaseStudies), site, cfg.Timezone)
	jobsService := jobs.NewService(jobs.NewRepository(cols.Jobs), site, cfg.Timezone)
	eventsService := events.NewService(events.NewRepository(cols.Events, cols.Venues), site, cfg.Timezone)
	trainingService := training.NewService(training.NewRepository(cols.TrainingClients, cols.Courses, cols.CourseProgress), site, cfg.Timezone)
	repurposeService := repurpose.NewService(repurpose.NewLoader(blogService, caseStudiesService), site)
	targetingService := targeting.NewService(catalog.Catalog, caseStudiesService, site)
	calendarService := calendar.NewService(
		calendar.NewRepository(cols.Settings, cols.CalendarEvents),
		mailer,
		calendar.NewDrafter(blogService, caseStudiesService, site),
		calendar.Options{
			Recipient:     cfg.ReminderEmail,
			DashboardLink: cfg.SiteURL + "/admin/calendar",
			Feed:          calendar.Feed{Name: cfg.SiteName + " content calendar", ProdID: "-//" + cfg.SiteName + "//Content Calendar//EN"},
		},
		cfg.Timezone,
	)

	var leadMailer leads.Mailer
	if mailer.Configured() {
		leadMailer = mailer
	}
	leadsService := leads.NewService(leads.NewRepository(cols.Leads), catalog.Catalog, leadMailer, leads.Options{
		Inbox:        cfg.LeadsEmail,
		DashboardURL: cfg.SiteURL + "/admin/leads",
		SiteName:     cfg.SiteName,
		Confirm:      cfg.LeadsConfirm,
	}, cfg.Timezone)

	server := &handlers.Server{
		Cfg:       cfg,
		Val:       val,
		Log:       logger,
		Passwords: passwords,
		Tokens:    jwtManager,
		Checks:    checks,
		Site:      site,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	leadsHandler := leads.NewHandler(leadsService, val, logger)

	writeLimiter := middleware.NewRateLimiter(cfg.RateLimitWrites, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	r.Route("/api", func(api chi.Router) {
		api.Use(writeLimiter.Middleware)

		server.Routes(api)
		blog.NewHandler(blogService, val, cacheStore, cacheTTL, logger).Routes(api, admin)
		casestudies.NewHandler(caseStudiesService, val, cacheStore, cacheTTL, logger).Routes(api, admin)
		jobs.NewHandler(jobsService, val, cacheStore, cacheTTL, logger).Routes(api, admin)
		events.NewHandler(eventsService, cacheStore, cacheTTL, logger).Routes(api)
		training.NewHandler(trainingService, val, logger).Routes(api)
		repurpose.NewHandler(repurposeService, logger).Routes(api, admin)
		targeting.NewHandler(targetingService, cacheStore, cacheTTL, logger).Routes(api)
		leadsHandler.Routes(api, admin)
		calendar.NewHandler(calendarService, val, cacheStore, cacheTTL, cfg.CalendarFeedURL, logger).Routes(api, admin)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	leadsHandler.Wait()
	logger.Info("server stopped")
}
