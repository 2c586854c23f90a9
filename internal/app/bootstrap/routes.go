// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	adminfeature "github.com/dalemusser/secretsanta/internal/app/features/admin"
	errorsfeature "github.com/dalemusser/secretsanta/internal/app/features/errors"
	groupsfeature "github.com/dalemusser/secretsanta/internal/app/features/groups"
	healthfeature "github.com/dalemusser/secretsanta/internal/app/features/health"
	homefeature "github.com/dalemusser/secretsanta/internal/app/features/home"
	loginfeature "github.com/dalemusser/secretsanta/internal/app/features/login"
	logoutfeature "github.com/dalemusser/secretsanta/internal/app/features/logout"
	userstore "github.com/dalemusser/secretsanta/internal/app/store/users"
	"github.com/dalemusser/secretsanta/internal/app/system/auth"
	"github.com/dalemusser/secretsanta/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// stopBackground cancels goroutines started by BuildHandler. Shutdown calls it.
var stopBackground context.CancelFunc = func() {}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Secret Santa boots the template engine, applies session and CSRF
// middleware, and mounts the public pages, sign-in, groups, and admin areas.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so disabling an account or changing
	// a role takes effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	// Dev mode enables template reloading.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()

	// Loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(csrfMiddleware(appCfg.CSRFKey, secure, logger)...)

	r.NotFound(errorsHandler.NotFound)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	bgCtx, cancel := context.WithCancel(context.Background())
	stopBackground = cancel
	loginLimiter := ratelimit.NewLoginLimiter()
	go loginLimiter.Run(bgCtx)

	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, loginLimiter, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))
	r.Mount("/register", loginfeature.RegisterRoutes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler, sessionMgr))

	adminHandler := adminfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler, sessionMgr))

	return r, nil
}

// csrfMiddleware guards every unsafe request with a gorilla/csrf token.
// Outside production the app is served over plain http, so requests are
// marked plaintext before the origin check runs.
func csrfMiddleware(key string, secure bool, logger *zap.Logger) []func(http.Handler) http.Handler {
	protect := csrf.Protect([]byte(key),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			errorsfeature.RenderForbidden(w, r,
				"Your form expired. Go back, reload the page, and try again.", "/")
		})),
	)

	if secure {
		return []func(http.Handler) http.Handler{protect}
	}
	plaintext := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
	return []func(http.Handler) http.Handler{plaintext, protect}
}
