package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/qaunion/portal/api"
	"github.com/qaunion/portal/config"
	"github.com/qaunion/portal/database"
	"github.com/qaunion/portal/handlers"
	"github.com/qaunion/portal/router"
	"github.com/qaunion/portal/services"
	"github.com/qaunion/portal/services/backend"
	"github.com/qaunion/portal/services/cron"
	"github.com/qaunion/portal/services/objectstore"
	"github.com/qaunion/portal/utils"
	"github.com/qaunion/portal/utils/auth"
	"github.com/qaunion/portal/utils/cache"
	"github.com/qaunion/portal/utils/middleware"
	"github.com/qaunion/portal/utils/sessions"
	"github.com/qaunion/portal/views"
)

// uploads carry workbooks up to 10 MB plus the multipart framing
const bodyLimit = 12 * 1024 * 1024

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	out, closeLog, err := utils.NewLogWriter(getEnv.LOG_FILE)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()
	log.SetOutput(out)

	store, err := database.Open(getEnv)
	if err != nil {
		log.Printf("Could not open the %s store", getEnv.STORE_BACKEND)
		if getEnv.STORE_BACKEND != config.StoreFile {
			log.Println("Check that the database is running, or set STORE_BACKEND=file")
		}
		return err
	}
	defer store.Close()

	server, cronManager, err := Build(getEnv, store)
	if err != nil {
		return err
	}

	if cronManager != nil {
		if err := cronManager.Start(); err != nil {
			// the site works without scheduled jobs
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down")
		if err := server.Shutdown(); err != nil {
			log.Printf("Shutdown failed: %v", err)
		}
	}()

	return server.Run()
}

// Build wires every service over store and registers the routes. The cron
// manager is returned unstarted, or nil when CRON_ENABLED is false.
func Build(env *config.EnvironmentVariable, store database.KeyValue) (*api.APIServer, *cron.CronManager, error) {
	// Redis backs the shared caches when configured; a single instance runs on memory
	var (
		sharedCache    cache.Cache = cache.NewMemoryCache()
		sessionStorage fiber.Storage
		limiterStorage fiber.Storage
	)
	if env.REDIS_URL != "" {
		redisCache, err := cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Falling back to in-memory caches.", err)
		} else {
			sharedCache = redisCache
			sessionStorage = cache.NewFiberStorage(redisCache, "portal:session:")
			limiterStorage = cache.NewFiberStorage(redisCache, "portal:limiter:")
		}
	}

	client := backend.NewClient(backend.Config{
		BaseURL: env.BACKEND_API_URL,
		Timeout: env.BACKEND_TIMEOUT,
	})

	var objects services.ObjectStore
	if env.SpacesEnabled() {
		spaces, err := objectstore.NewSpacesClient(objectstore.SpacesConfig{
			AccessKey: env.DO_SPACES_ACCESS_KEY,
			SecretKey: env.DO_SPACES_SECRET_KEY,
			Bucket:    env.DO_SPACES_BUCKET,
			Region:    env.DO_SPACES_REGION,
			Endpoint:  env.DO_SPACES_ENDPOINT,
			CDNURL:    env.DO_SPACES_CDN_ENDPOINT,
		})
		if err != nil {
			log.Printf("Warning: Spaces unavailable, logos go to the backend upload: %v", err)
		} else {
			objects = spaces
		}
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret: env.JWT_SECRET,
		Issuer: env.JWT_ISSUER,
	})
	sm := sessions.NewManager(sessionStorage, env.SESSION_EXPIRY, env.GO_ENV == "production")

	universityService := services.NewUniversityService(database.NewUniversityStore(store))
	lookupService := services.NewLookupService(client, sharedCache)
	mailer := services.NewEmailService(services.EmailConfig{
		Host:     env.SMTP_HOST,
		Port:     env.SMTP_PORT,
		Username: env.SMTP_USERNAME,
		Password: env.SMTP_PASSWORD,
		From:     env.SMTP_FROM,
		To:       env.CONTACT_EMAIL,
	})

	deps := router.Dependencies{
		Store:                store,
		Backend:              client,
		Sessions:             sm,
		Auth:                 middleware.NewAuthMiddleware(sm, jwtManager),
		BruteForceProtection: middleware.NewBruteForceProtection(sharedCache, env.LOGIN_MAX_ATTEMPTS, env.LOGIN_LOCKOUT),
		Universities:         universityService,
		Logos:                services.NewLogoService(objects, client),
		Lookups:              lookupService,
		Dashboards:           services.NewDashboardService(client, sharedCache, env.DASHBOARD_CACHE_TTL),
		Mailer:               mailer,
	}
	if env.CRON_ENABLED {
		deps.Cron = cron.NewCronManager(store, lookupService, universityService, cron.Schedules{
			LookupRefresh: env.LOOKUP_REFRESH_SPEC,
			Snapshot:      env.SNAPSHOT_SPEC,
		})
	}

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT), fiber.Config{
		AppName:      "QA Union Portal",
		Views:        views.Engine(),
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    bodyLimit,
	})
	app := server.GetEngine()

	// Attach Middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   env.RATE_LIMIT_WINDOW,
		LimiterStorage:    limiterStorage,
		LogOutput:         log.Writer(),
	})

	// Setup Routes
	router.SetupRoutes(app, deps)

	return server, deps.Cron, nil
}
