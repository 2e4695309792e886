package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/gradedesk/internal/app/controllers"
	appRoutes "github.com/yigit/gradedesk/internal/app/routes"
	appServices "github.com/yigit/gradedesk/internal/app/services"
	"github.com/yigit/gradedesk/internal/app/sessions"
	"github.com/yigit/gradedesk/internal/app/views"
	"github.com/yigit/gradedesk/internal/backend"
	"github.com/yigit/gradedesk/internal/config"
	appMiddleware "github.com/yigit/gradedesk/internal/middleware"
	"github.com/yigit/gradedesk/internal/pkg/helpers"
	"github.com/yigit/gradedesk/internal/pkg/logger"
	"github.com/yigit/gradedesk/internal/pkg/websocket"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Backend           *backend.Client
	SessionStore      sessions.Store
	ConsoleService    appServices.ConsoleService
	ConsoleController *appControllers.ConsoleController
	APIController     *appControllers.APIController
	SessionMiddleware gin.HandlerFunc
	EventHub          *websocket.Hub
	EventHandler      *websocket.Handler
	Logger            zerolog.Logger

	stopHub context.CancelFunc
}

// Close stops the event hub and releases the session store
func (d *Dependencies) Close() error {
	if d.stopHub != nil {
		d.stopHub()
	}
	if d.SessionStore == nil {
		return nil
	}
	return d.SessionStore.Close()
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: logger.ParseFormat(cfg.Logging.Format),
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupSessionStore creates the configured session store
func SetupSessionStore(cfg *config.Config, lgr zerolog.Logger) (sessions.Store, error) {
	ttl := helpers.ParseDuration(cfg.Session.TTL, 24*time.Hour)

	if cfg.Session.Store != config.SessionStoreRedis {
		lgr.Info().Dur("ttl", ttl).Msg("Using in-memory session store")
		return sessions.NewMemoryStore(ttl), nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to redis session store...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := sessions.NewRedisClient(ctx, sessions.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to redis")
		return nil, err
	}
	lgr.Info().Msg("Redis connection successfully established.")
	return sessions.NewRedisStore(client, ttl, lgr), nil
}

// BuildDependencies initializes the backend client, session store, services and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	store, err := SetupSessionStore(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup session store: %w", err)
	}
	deps.SessionStore = store

	timeout := helpers.ParseDuration(cfg.Backend.Timeout, 15*time.Second)
	deps.Backend = backend.NewClient(cfg.BackendBaseURL(), timeout, lgr)
	lgr.Info().Str("backend", cfg.Backend.URL).Dur("timeout", timeout).Msg("Backend client configured")

	deps.EventHub = websocket.NewHub(logger.Component("events"))
	hubCtx, stopHub := context.WithCancel(context.Background())
	deps.stopHub = stopHub
	go deps.EventHub.Run(hubCtx)

	deps.ConsoleService = appServices.NewConsoleService(deps.Backend, deps.SessionStore, deps.EventHub, logger.Component("console"))

	deps.SessionMiddleware = appMiddleware.SessionMiddleware(deps.ConsoleService, appMiddleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        helpers.ParseDuration(cfg.Session.TTL, 24*time.Hour),
		Secure:     strings.ToLower(cfg.Server.Mode) == "production",
	}, lgr)

	// The footer shows the configured URL exactly as given
	deps.ConsoleController = appControllers.NewConsoleController(deps.ConsoleService, cfg.Backend.URL, cfg.UI.ConnectivityTestURL)
	deps.APIController = appControllers.NewAPIController(deps.ConsoleService)
	deps.EventHandler = websocket.NewHandler(deps.EventHub, appMiddleware.SessionID, cfg.CORS.AllowedOrigins, logger.Component("events"))

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(cors.New(corsConfig(cfg)))

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.ConsoleController, deps.APIController, deps.EventHandler, deps.SessionMiddleware)

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Same-origin only
		c.AllowOriginFunc = func(string) bool { return false }
		return c
	}
	c.AllowOrigins = cfg.CORS.AllowedOrigins
	return c
}
