// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	affilstore "github.com/tracknarino/backend/internal/app/store/affiliations"
	alertstore "github.com/tracknarino/backend/internal/app/store/alerts"
	locationstore "github.com/tracknarino/backend/internal/app/store/locations"
	oppstore "github.com/tracknarino/backend/internal/app/store/opportunities"
	ratingstore "github.com/tracknarino/backend/internal/app/store/ratings"
	userstore "github.com/tracknarino/backend/internal/app/store/users"
	vehiclestore "github.com/tracknarino/backend/internal/app/store/vehicles"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection used by every store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("pinging MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store relies on. Each store owns
// its index definitions; this hook just walks them. Re-running is a no-op.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	ensurers := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"opportunities", oppstore.New(db).EnsureIndexes},
		{"affiliations", affilstore.New(db).EnsureIndexes},
		{"safety_alerts", alertstore.New(db).EnsureIndexes},
		{"location_pings", locationstore.New(db).EnsureIndexes},
		{"ratings", ratingstore.New(db).EnsureIndexes},
		{"vehicles", vehiclestore.New(db).EnsureIndexes},
	}
	for _, e := range ensurers {
		if err := e.fn(ctx); err != nil {
			return fmt.Errorf("ensuring indexes for %s: %w", e.name, err)
		}
	}
	logger.Info("database indexes ensured")
	return nil
}
