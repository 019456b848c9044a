// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"slices"
	"strings"
	"time"

	"github.com/amirphl/affiliate-rhonat/app/dto"
	"github.com/amirphl/affiliate-rhonat/app/handlers"
	"github.com/amirphl/affiliate-rhonat/app/middleware"
	"github.com/amirphl/affiliate-rhonat/config"
	"github.com/amirphl/affiliate-rhonat/docs"
	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/swaggo/swag"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// Handlers groups every HTTP handler the router mounts.
// Reporting handlers are only mounted when Auth is set.
type Handlers struct {
	Redirect    handlers.RedirectHandlerInterface
	SaleRecord  handlers.SaleRecordHandlerInterface
	Health      handlers.HealthHandlerInterface
	Affiliate   handlers.AffiliateStatsHandlerInterface
	Marketplace handlers.MarketplaceHandlerInterface
	AdminReport handlers.AdminReportHandlerInterface
	Auth        *middleware.AuthMiddleware
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app      *fiber.App
	cfg      *config.AppConfig
	handlers Handlers
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(cfg *config.AppConfig, h Handlers) Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Deployment.ServiceName,
		ServerHeader: cfg.Deployment.ServiceName,
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		UnescapePath: true,
		ProxyHeader:  cfg.Server.ProxyHeader,
		TrustProxy:   len(cfg.Server.TrustedProxies) > 0,
		TrustProxyConfig: fiber.TrustProxyConfig{
			Proxies: cfg.Server.TrustedProxies,
		},
	})

	return &FiberRouter{
		app:      app,
		cfg:      cfg,
		handlers: h,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	logging.Info().Msg("Setting up routes...")

	r.setupMiddleware()

	// Public attribution endpoints, called by browsers and merchant pages
	r.app.All("/go/:code?", r.handlers.Redirect.Redirect)
	r.app.All("/sale-record", r.handlers.SaleRecord.Record)

	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.handlers.Health.Check)

	if r.cfg.Deployment.IsDevelopment() {
		api.Get("/swagger.json", r.serveSwaggerJSON)
		logging.Info().Msg("API documentation enabled for development")
	}

	api.Use(limiter.New(limiter.Config{
		Max:        r.cfg.Security.GlobalRateLimit,
		Expiration: r.cfg.Security.RateLimitWindow,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/api/v1/health"
		},
	}))

	if auth := r.handlers.Auth; auth != nil {
		authn := auth.Authenticate()
		authz := auth.Authorize()

		affiliate := api.Group("/affiliate", authn, authz)
		affiliate.Get("/stats", r.handlers.Affiliate.GetStats)
		affiliate.Get("/clicks", r.handlers.Affiliate.ListClicks)
		affiliate.Get("/conversions", r.handlers.Affiliate.ListConversions)

		marketplace := api.Group("/marketplace", authn, authz)
		marketplace.Get("/products", r.handlers.Marketplace.ListProducts)

		admin := api.Group("/admin", authn, authz)
		admin.Get("/aggregates", r.handlers.AdminReport.Aggregates)
		admin.Get("/top-affiliates", r.handlers.AdminReport.TopAffiliates)
		admin.Get("/sales/export", r.handlers.AdminReport.ExportSales)
	} else {
		logging.Warn().Msg("JWT verification is not configured; reporting routes are disabled")
	}

	r.app.Use(r.notFoundHandler)

	logging.Info().Msg("Routes configured successfully")
}

// setupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	sec := r.cfg.Security

	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: logging.GenerateRequestID,
	}))

	// The pixel and redirect are embedded cross-origin, so resources stay cross-origin readable
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             sec.XFrameOptions,
		HSTSMaxAge:                sec.HSTSMaxAge,
		ContentSecurityPolicy:     sec.CSPPolicy,
		ReferrerPolicy:            sec.ReferrerPolicy,
		CrossOriginResourcePolicy: "cross-origin",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	r.app.Use(attributionPreflight(cors.New(cors.Config{
		AllowOrigins:     sec.AllowedOrigins,
		AllowMethods:     sec.AllowedMethods,
		AllowHeaders:     sec.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: sec.AllowCredentials && !slices.Contains(sec.AllowedOrigins, "*"),
		MaxAge:           sec.CORSMaxAge,
	})))

	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next:  isAttributionPath,
	}))

	if r.cfg.Logging.EnableAccessLog {
		r.app.Use(logger.New(logger.Config{
			Format:     `{"time":"${time}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Stream:     logging.Writer(),
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/api/v1/health"
			},
		}))
	}

	r.app.Use(middleware.Metrics())

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			logging.Error().
				Interface("panic", e).
				Str("request_id", requestid.FromContext(c)).
				Str("path", c.Path()).
				Str("method", c.Method()).
				Str("ip", c.IP()).
				Msg("panic recovered")
		},
	}))
}

// isAttributionPath matches the public redirect and sale endpoints
func isAttributionPath(c fiber.Ctx) bool {
	path := c.Path()
	return path == "/sale-record" || path == "/go" || strings.HasPrefix(path, "/go/")
}

// attributionPreflight wraps the cors middleware so that preflights on the
// attribution endpoints get the CORS headers and are then answered by the
// handler itself (200, empty body) instead of the middleware's 204.
func attributionPreflight(corsHandler fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		preflight := c.Method() == fiber.MethodOptions &&
			c.Get(fiber.HeaderOrigin) != "" &&
			c.Get(fiber.HeaderAccessControlRequestMethod) != ""
		if !preflight || !isAttributionPath(c) {
			return corsHandler(c)
		}
		if err := corsHandler(c); err != nil {
			return err
		}
		return c.Next()
	}
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	logging.Info().Str("address", address).Msg("Starting server")
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// serveSwaggerJSON renders the registered OpenAPI document
func (r *FiberRouter) serveSwaggerJSON(c fiber.Ctx) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to load Swagger documentation",
			Error: dto.ErrorDetail{
				Code: "SWAGGER_LOAD_ERROR",
			},
		})
	}

	c.Set("Content-Type", "application/json")
	return c.SendString(doc)
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An internal server error occurred"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	logging.Error().Err(err).Int("status", code).Str("path", c.Path()).Msg("request failed")

	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestid.FromContext(c),
			},
		},
	})
}
