package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/nnpgpt/internal/app/auth"
	appControllers "github.com/yigit/nnpgpt/internal/app/controllers"
	appMigrations "github.com/yigit/nnpgpt/internal/app/migrations"
	"github.com/yigit/nnpgpt/internal/app/models"
	appRepos "github.com/yigit/nnpgpt/internal/app/repositories"
	appRoutes "github.com/yigit/nnpgpt/internal/app/routes"
	appServices "github.com/yigit/nnpgpt/internal/app/services"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/config"
	"github.com/yigit/nnpgpt/internal/db"
	appMiddleware "github.com/yigit/nnpgpt/internal/middleware"
	pkgAuth "github.com/yigit/nnpgpt/internal/pkg/auth"
	"github.com/yigit/nnpgpt/internal/pkg/cache"
	"github.com/yigit/nnpgpt/internal/pkg/filestorage"
	"github.com/yigit/nnpgpt/internal/pkg/logger"
	"github.com/yigit/nnpgpt/internal/pkg/metrics"
	"github.com/yigit/nnpgpt/internal/pkg/themestore"
	"github.com/yigit/nnpgpt/internal/pkg/websocket"
	"github.com/yigit/nnpgpt/internal/seed"
)

// maxUploadMemory is how much of a multipart body gin keeps in memory
const maxUploadMemory = 32 << 20

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	SessionCache   cache.SessionCache
	ThemeStore     *themestore.Store
	FileStorage    *filestorage.LocalStorage
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Metrics        *metrics.Metrics
	Hub            *websocket.Hub
	Registry       *appServices.Registry
	SessionService *appServices.SessionService
	CourseService  *appServices.CourseService
	ChatService    appServices.ChatService
	PreviewService *appServices.PreviewService
	ThemeService   *appServices.ThemeService
	AuthMiddleware *appMiddleware.AuthMiddleware
	LoginLimiter   *appMiddleware.IPRateLimiter
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// Close releases the stores opened by BuildDependencies
func (d *Dependencies) Close() error {
	var errs []error
	if d.SessionCache != nil {
		errs = append(errs, d.SessionCache.Close())
	}
	if d.ThemeStore != nil {
		errs = append(errs, d.ThemeStore.Close())
	}
	return errors.Join(errs...)
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to PostgreSQL and applies migrations. It returns a nil
// pool when the database is disabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	if !cfg.Database.Enabled {
		lgr.Info().Msg("Database disabled, using the file catalog only")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database.Pool, nil
}

// buildCatalog picks the catalog backend. The YAML catalog also seeds an empty
// database catalog.
func buildCatalog(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*appRepos.Repositories, error) {
	fileCatalog, err := appRepos.LoadFileCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog file: %w", err)
	}

	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		lgr.Info().Str("path", cfg.Catalog.Path).Msg("Serving the course catalog from file")
		return appRepos.NewFileRepositories(fileCatalog), nil
	}
	if dbPool == nil {
		return nil, fmt.Errorf("postgres catalog selected but no database is configured")
	}

	repos := appRepos.NewRepositories(dbPool)
	if err := seed.CreateDefaultData(ctx, repos.CourseRepository, fileCatalog, lgr); err != nil {
		// a partially seeded catalog is still usable
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
	return repos, nil
}

func buildSessionCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (cache.SessionCache, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(cfg.CacheTTL()), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Redis.Addr, err)
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Session cache backed by Redis")
	return cache.NewRedisCache(client, cfg.CacheTTL(), cfg.Redis.Prefix), nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	if deps.Repos, err = buildCatalog(ctx, cfg, dbPool, lgr); err != nil {
		return nil, err
	}
	research, err := deps.Repos.Catalog.ResearchSeed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load research seed: %w", err)
	}

	// Document storage is served back under /documents by the server
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/documents")
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	if deps.SessionCache, err = buildSessionCache(ctx, cfg, lgr); err != nil {
		return nil, err
	}
	if deps.ThemeStore, err = themestore.Open(cfg.Theme.Path, models.ThemeMode(strings.ToLower(cfg.Theme.Default))); err != nil {
		deps.Close()
		return nil, err
	}

	deps.Metrics = metrics.New()
	deps.Hub = websocket.NewHub(lgr.With().Str("component", "websocket").Logger())
	deps.AuthzService = appAuth.NewAuthorizationService()
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenTTL(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	events := session.MultiSink{
		appServices.NewEventBridge(deps.Hub, lgr),
		appServices.NewMetricsSink(deps.Metrics),
	}
	purgers := []session.Purger{
		session.PurgerFunc(deps.SessionCache.Purge),
		session.PurgerFunc(func(_ context.Context, sessionID string) error {
			return deps.FileStorage.PurgeSession(sessionID)
		}),
	}
	factory := func(id string) *session.Controller {
		return session.NewController(id, session.Options{
			Catalog:         deps.Repos.Catalog,
			Purgers:         purgers,
			Events:          events,
			ResearchSeed:    research,
			OverlayDuration: cfg.OverlayDuration(),
		})
	}

	serviceLogger := lgr.With().Str("component", "services").Logger()
	deps.Registry = appServices.NewRegistry(factory, cfg.Session.MaxNodes, serviceLogger)
	deps.SessionService = appServices.NewSessionService(
		deps.Registry,
		deps.Repos.Catalog,
		appServices.NewPasscodeAuthenticator(map[models.Role]string{
			models.RoleLecturer: cfg.Auth.LecturerPasscodeHash,
			models.RoleAdmin:    cfg.Auth.AdminPasscodeHash,
		}),
		deps.AuthzService,
		deps.JWTService,
		deps.FileStorage,
		deps.Metrics,
		serviceLogger,
	)
	deps.SessionService.OnEvict(func(ctx context.Context, sessionID string) {
		deps.Hub.CloseTopic(sessionID)
		for _, p := range purgers {
			if err := p.Purge(ctx, sessionID); err != nil {
				serviceLogger.Warn().Err(err).Str("sessionID", sessionID).Msg("Failed to purge evicted session")
			}
		}
	})

	deps.CourseService = appServices.NewCourseService(deps.Repos.Catalog, serviceLogger)
	deps.ChatService = appServices.NewChatService(deps.Registry, appServices.NewContextEngine(), serviceLogger)
	deps.PreviewService = appServices.NewPreviewService(deps.Registry, deps.SessionCache, serviceLogger)
	deps.ThemeService = appServices.NewThemeService(deps.ThemeStore, serviceLogger)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionService)
	deps.LoginLimiter = appMiddleware.NewIPRateLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst, 10*time.Minute)

	deps.Controllers = appRoutes.Controllers{
		Session: appControllers.NewSessionController(deps.SessionService),
		Course:  appControllers.NewCourseController(deps.CourseService),
		Chat:    appControllers.NewChatController(deps.ChatService),
		Preview: appControllers.NewPreviewController(deps.PreviewService),
		Theme:   appControllers.NewThemeController(deps.ThemeService),
		Events:  appControllers.NewEventsController(deps.Hub),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	switch strings.ToLower(cfg.Server.Mode) {
	case "production":
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.MaxMultipartMemory = maxUploadMemory
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()),
		deps.Metrics.Instrument(),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.LoginLimiter)

	router.Static("/documents", deps.FileStorage.BasePath())
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": deps.Registry.Len()})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}
