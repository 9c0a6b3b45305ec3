package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
	"github.com/odo-atelier/budget-api/internal/config"
	"go.uber.org/zap"
)

func isLocalEnvironment(environment string) bool {
	return environment == "development" || environment == "local" || environment == ""
}

// CORS returns the cross-origin policy for the budget frontend.
// Without configured origins, local environments accept any origin and
// deployed ones reject all. Content-Disposition must be exposed so the
// browser can name downloaded exports.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	exposed := cfg.ExposedHeaders
	if !slices.Contains(exposed, "Content-Disposition") {
		exposed = append(slices.Clone(exposed), "Content-Disposition")
	}

	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   exposed,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	anyOrigin := func(r *http.Request, origin string) bool { return origin != "" }

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isLocalEnvironment(environment) {
			logger.Warn("CORS configured with wildcard origin in non-development environment",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = anyOrigin
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case isLocalEnvironment(environment):
		options.AllowOriginFunc = anyOrigin
		logger.Info("CORS allows all origins in development mode")
	default:
		// an empty AllowedOrigins list would mean "*" to the cors package
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS configured with no allowed origins, cross-origin requests will be denied",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}
