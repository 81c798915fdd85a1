// Package affilstore persists the contractor↔driver affiliation relation as
// an edge collection.
package affilstore

import (
	"context"
	"errors"
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
	return &Store{c: db.Collection("affiliations")}
}

// EnsureIndexes creates the unique edge index. Uniqueness here is what makes
// Affiliate safe under concurrent requests.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contractor_id", Value: 1}, {Key: "driver_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_affil_edge"),
		},
		{
			Keys:    bson.D{{Key: "driver_id", Value: 1}},
			Options: options.Index().SetName("idx_affil_driver"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// ErrDuplicateAffiliation is returned when the edge already exists.
var ErrDuplicateAffiliation = errors.New("el camionero ya está afiliado a este contratista")

// Affiliate creates the contractor→driver edge.
func (s *Store) Affiliate(ctx context.Context, contractorID, driverID primitive.ObjectID) (models.Affiliation, error) {
	a := models.Affiliation{
		ID:         primitive.NewObjectID(),
		Contractor: contractorID,
		Driver:     driverID,
		CreatedAt:  time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Affiliation{}, ErrDuplicateAffiliation
		}
		return models.Affiliation{}, err
	}
	return a, nil
}

// Unaffiliate removes the edge. Removing an edge that does not exist is a
// no-op; the end state is the same either way.
func (s *Store) Unaffiliate(ctx context.Context, contractorID, driverID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"contractor_id": contractorID, "driver_id": driverID})
	return err
}

// IsAffiliated reports whether the edge exists.
func (s *Store) IsAffiliated(ctx context.Context, contractorID, driverID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"contractor_id": contractorID, "driver_id": driverID}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// DriversFor returns the driver ids affiliated to a contractor.
func (s *Store) DriversFor(ctx context.Context, contractorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.edgeIDs(ctx, bson.M{"contractor_id": contractorID}, func(a models.Affiliation) primitive.ObjectID {
		return a.Driver
	})
}

// ContractorsFor returns the contractor ids a driver is affiliated to.
func (s *Store) ContractorsFor(ctx context.Context, driverID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.edgeIDs(ctx, bson.M{"driver_id": driverID}, func(a models.Affiliation) primitive.ObjectID {
		return a.Contractor
	})
}

func (s *Store) edgeIDs(ctx context.Context, filter bson.M, pick func(models.Affiliation) primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var edges []models.Affiliation
	if err := cur.All(ctx, &edges); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, pick(e))
	}
	return ids, nil
}
