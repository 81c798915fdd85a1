// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the service. They are
// loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: TRACKNARINO_MONGO_URI, TRACKNARINO_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "tracknarino", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "JWT signing secret (must be strong in production)"},
	{Name: "jwt_ttl", Default: "24h", Desc: "Access token lifetime (e.g., 24h, 12h)"},

	{Name: "osrm_base_url", Default: "", Desc: "OSRM base URL; blank disables engine lookups"},
	{Name: "osrm_timeout", Default: "8s", Desc: "Per-lookup OSRM timeout"},

	{Name: "push_enabled", Default: false, Desc: "Enable push notification dispatch"},
	{Name: "push_endpoint", Default: "", Desc: "Push gateway URL"},
	{Name: "push_server_key", Default: "", Desc: "Bearer key for the push gateway"},

	{Name: "alert_radius_km", Default: 50, Desc: "Default radius for nearby alert queries, in kilometers"},
	{Name: "alert_recent_window", Default: "24h", Desc: "How far back alert queries look"},
}

// LoadConfig loads WAFFLE core config and app-specific config. It is called
// early in startup so both WAFFLE and the app have configuration before any
// backends or handlers are built. Precedence: flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TRACKNARINO", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTTTL:    appValues.Duration("jwt_ttl", 24*time.Hour),

		OSRMBaseURL: appValues.String("osrm_base_url"),
		OSRMTimeout: appValues.Duration("osrm_timeout", 8*time.Second),

		PushEnabled:   appValues.Bool("push_enabled"),
		PushEndpoint:  appValues.String("push_endpoint"),
		PushServerKey: appValues.String("push_server_key"),

		AlertRadiusMeters: float64(appValues.Int("alert_radius_km")) * 1000,
		AlertRecentWindow: appValues.Duration("alert_recent_window", 24*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation before anything
// connects. The MongoDB URI format is checked here to fail fast on
// misconfiguration.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}
	if coreCfg.Env == "prod" && appCfg.JWTSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("jwt_secret must be changed from the dev default in prod")
	}
	if appCfg.PushEnabled && appCfg.PushEndpoint == "" {
		logger.Warn("push_enabled is set but push_endpoint is blank; dispatch will be disabled")
	}
	return nil
}
