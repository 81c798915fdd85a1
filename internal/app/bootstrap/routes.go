// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	affiliationsfeature "github.com/tracknarino/backend/internal/app/features/affiliations"
	alertsfeature "github.com/tracknarino/backend/internal/app/features/alerts"
	authfeature "github.com/tracknarino/backend/internal/app/features/auth"
	directoryfeature "github.com/tracknarino/backend/internal/app/features/directory"
	healthfeature "github.com/tracknarino/backend/internal/app/features/health"
	locationsfeature "github.com/tracknarino/backend/internal/app/features/locations"
	notificationsfeature "github.com/tracknarino/backend/internal/app/features/notifications"
	opportunitiesfeature "github.com/tracknarino/backend/internal/app/features/opportunities"
	ratingsfeature "github.com/tracknarino/backend/internal/app/features/ratings"
	routingfeature "github.com/tracknarino/backend/internal/app/features/routing"
	vehiclesfeature "github.com/tracknarino/backend/internal/app/features/vehicles"
	affilstore "github.com/tracknarino/backend/internal/app/store/affiliations"
	alertstore "github.com/tracknarino/backend/internal/app/store/alerts"
	locationstore "github.com/tracknarino/backend/internal/app/store/locations"
	oppstore "github.com/tracknarino/backend/internal/app/store/opportunities"
	ratingstore "github.com/tracknarino/backend/internal/app/store/ratings"
	userstore "github.com/tracknarino/backend/internal/app/store/users"
	vehiclestore "github.com/tracknarino/backend/internal/app/store/vehicles"
	sysauth "github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/app/system/metrics"
	"github.com/tracknarino/backend/internal/app/system/notify"
	sysrouting "github.com/tracknarino/backend/internal/app/system/routing"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the shared system services
// (token manager, push dispatcher, routing client), the stores, and one
// handler per feature, then mounts each feature under its path.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := sysauth.NewManager(appCfg.JWTSecret, appCfg.JWTTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	dispatcher := notify.New(notify.Config{
		Enabled:   appCfg.PushEnabled,
		Endpoint:  appCfg.PushEndpoint,
		ServerKey: appCfg.PushServerKey,
	}, logger)

	routes := sysrouting.NewClient(appCfg.OSRMBaseURL, appCfg.OSRMTimeout, logger)

	db := deps.MongoDatabase
	users := userstore.New(db)
	opps := oppstore.New(db)
	affiliations := affilstore.New(db)
	alerts := alertstore.New(db)
	locations := locationstore.New(db)
	ratings := ratingstore.New(db)
	vehicles := vehiclestore.New(db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	authHandler := authfeature.NewHandler(users, tokens, logger)
	r.Mount("/auth", authfeature.Routes(authHandler))

	oppHandler := opportunitiesfeature.NewHandler(opps, users, dispatcher, logger)
	r.Mount("/oportunidades", opportunitiesfeature.Routes(oppHandler, tokens, logger))
	r.Mount("/historial", opportunitiesfeature.HistoryRoutes(oppHandler, tokens, logger))

	affilHandler := affiliationsfeature.NewHandler(affiliations, users, logger)
	r.Mount("/contratistas", affiliationsfeature.Routes(affilHandler, tokens, logger))

	alertHandler := alertsfeature.NewHandler(alerts, appCfg.AlertRadiusMeters, appCfg.AlertRecentWindow, logger)
	r.Mount("/alertas", alertsfeature.Routes(alertHandler, tokens, logger))

	locationHandler := locationsfeature.NewHandler(locations, logger)
	r.Mount("/ubicacion", locationsfeature.Routes(locationHandler, tokens, logger))

	ratingHandler := ratingsfeature.NewHandler(ratings, logger)
	r.Mount("/calificaciones", ratingsfeature.Routes(ratingHandler, tokens, logger))

	vehicleHandler := vehiclesfeature.NewHandler(vehicles, logger)
	r.Mount("/vehiculos", vehiclesfeature.Routes(vehicleHandler, tokens, logger))

	routingHandler := routingfeature.NewHandler(routes, logger)
	r.Mount("/ors", routingfeature.Routes(routingHandler, tokens, logger))

	notifHandler := notificationsfeature.NewHandler(users, logger)
	r.Mount("/notificaciones", notificationsfeature.Routes(notifHandler, tokens, logger))

	directoryHandler := directoryfeature.NewHandler(users, logger)
	r.Mount("/admin", directoryfeature.Routes(directoryHandler, tokens, logger))

	return r, nil
}
