// Package locationstore persists driver position pings. Pings are append
// only; the latest ping per driver is the driver's current location.
package locationstore

import (
	"context"
	"errors"
	"time"

	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("location_pings")}
}

// EnsureIndexes creates the index backing the latest-ping lookup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "camionero", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_pings_camionero_ts"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

var (
	// ErrNoLocation is returned when the driver has never reported a position.
	ErrNoLocation = errors.New("sin ubicación registrada para el camionero")

	errBadCoords = errors.New("coordenadas inválidas")
)

// Append records a new position report for the driver.
func (s *Store) Append(ctx context.Context, driverID primitive.ObjectID, coords models.Coord) (models.LocationPing, error) {
	if !coords.Valid() {
		return models.LocationPing{}, errBadCoords
	}
	p := models.LocationPing{
		ID:        primitive.NewObjectID(),
		Driver:    driverID,
		Coords:    coords,
		Timestamp: time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.LocationPing{}, err
	}
	return p, nil
}

// Latest returns the driver's most recent ping.
func (s *Store) Latest(ctx context.Context, driverID primitive.ObjectID) (*models.LocationPing, error) {
	var p models.LocationPing
	err := s.c.FindOne(ctx, bson.M{"camionero": driverID},
		options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoLocation
		}
		return nil, err
	}
	return &p, nil
}
