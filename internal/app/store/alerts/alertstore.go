// Package alertstore persists road safety alerts and answers proximity
// queries over them.
package alertstore

import (
	"context"
	"errors"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tracknarino/backend/internal/app/system/geo"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c         *mongo.Collection
	sanitizer *bluemonday.Policy
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:         db.Collection("safety_alerts"),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// EnsureIndexes creates the indexes for the safety_alerts collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_alerts_created"),
		},
		{
			Keys:    bson.D{{Key: "usuario", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_alerts_usuario"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

var (
	errBadType   = errors.New("tipo de alerta desconocido")
	errBadCoords = errors.New("coordenadas inválidas")
)

// Create inserts a new alert. Free-text fields come straight from mobile
// clients and are stripped of any markup before storage.
func (s *Store) Create(ctx context.Context, a models.SafetyAlert) (models.SafetyAlert, error) {
	if !models.ValidAlertType(a.Type) {
		return models.SafetyAlert{}, errBadType
	}
	if !a.Coords.Valid() {
		return models.SafetyAlert{}, errBadCoords
	}

	a.ID = primitive.NewObjectID()
	a.Description = s.sanitizer.Sanitize(a.Description)
	a.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.SafetyAlert{}, err
	}
	return a, nil
}

// ListRecent returns shared alerts created within the window, newest first.
func (s *Store) ListRecent(ctx context.Context, window time.Duration) ([]models.SafetyAlert, error) {
	filter := bson.M{
		"compartir":  true,
		"created_at": bson.M{"$gte": time.Now().Add(-window)},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var alerts []models.SafetyAlert
	if err := cur.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Nearby returns recent shared alerts within radiusMeters of center,
// boundary inclusive. Alerts with coordinates that no longer validate are
// skipped rather than failing the whole query.
func (s *Store) Nearby(ctx context.Context, center models.Coord, radiusMeters float64, window time.Duration) ([]models.SafetyAlert, error) {
	if !center.Valid() {
		return nil, errBadCoords
	}
	recent, err := s.ListRecent(ctx, window)
	if err != nil {
		return nil, err
	}

	nearby := make([]models.SafetyAlert, 0, len(recent))
	for _, a := range recent {
		if !a.Coords.Valid() {
			continue
		}
		if geo.DistanceMeters(center, a.Coords) <= radiusMeters {
			nearby = append(nearby, a)
		}
	}
	return nearby, nil
}
