// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS); AppConfig is everything specific to this service.
// The struct is built once in LoadConfig and passed into the lifecycle
// hooks; nothing reads configuration from ambient globals after startup.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Access token configuration
	JWTSecret string        // HS256 signing secret (must be strong in production)
	JWTTTL    time.Duration // Token lifetime

	// Routing engine configuration
	OSRMBaseURL string        // OSRM base URL; blank degrades route lookups to straight-line estimates
	OSRMTimeout time.Duration // Per-lookup timeout

	// Push notification configuration
	PushEnabled   bool   // Master switch for push dispatch
	PushEndpoint  string // Push gateway URL
	PushServerKey string // Bearer key for the gateway

	// Safety alert configuration
	AlertRadiusMeters float64       // Default nearby-query radius
	AlertRecentWindow time.Duration // How far back alert queries look
}
