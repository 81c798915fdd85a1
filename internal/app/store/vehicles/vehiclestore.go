// Package vehiclestore persists standalone vehicle registrations.
package vehiclestore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	return &Store{c: db.Collection("vehicles")}
}

// EnsureIndexes creates the indexes for the vehicles collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "placa", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_vehicles_placa"),
		},
		{
			Keys:    bson.D{{Key: "camioneroId", Value: 1}},
			Options: options.Index().SetName("idx_vehicles_camionero"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

var (
	// ErrDuplicatePlate is returned when the plate is already registered.
	ErrDuplicatePlate = errors.New("ya existe un vehículo con esta placa")

	errBadVehicleType = errors.New("tipoVehiculo desconocido")
	errPlateNeeded    = errors.New("placa is required")
)

// Register inserts a new vehicle for a driver. Plates are stored uppercase.
func (s *Store) Register(ctx context.Context, v models.Vehicle) (models.Vehicle, error) {
	valid := false
	for _, t := range models.VehicleTypes {
		if v.VehicleType == t {
			valid = true
			break
		}
	}
	if !valid {
		return models.Vehicle{}, errBadVehicleType
	}
	v.Plate = strings.ToUpper(strings.TrimSpace(v.Plate))
	if v.Plate == "" {
		return models.Vehicle{}, errPlateNeeded
	}

	v.ID = primitive.NewObjectID()
	v.RegisteredAt = time.Now()

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Vehicle{}, ErrDuplicatePlate
		}
		return models.Vehicle{}, err
	}
	return v, nil
}

// ListByDriver returns a driver's registered vehicles, newest first.
func (s *Store) ListByDriver(ctx context.Context, driverID primitive.ObjectID) ([]models.Vehicle, error) {
	cur, err := s.c.Find(ctx, bson.M{"camioneroId": driverID},
		options.Find().SetSort(bson.D{{Key: "fechaRegistro", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var vehicles []models.Vehicle
	if err := cur.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}
