// Package ratingstore persists service ratings.
package ratingstore

import (
	"context"
	"errors"
	"time"

	"github.com/microcosm-cc/bluemonday"
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
		c:         db.Collection("ratings"),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// EnsureIndexes creates the indexes for the ratings collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "usuario", Value: 1}, {Key: "fecha", Value: -1}},
			Options: options.Index().SetName("idx_ratings_usuario"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

var (
	errBadScore   = errors.New("calificacion must be between 1 and 5")
	errBadService = errors.New(`tipoServicio must be "camionero"|"contratista"`)
)

// Create inserts a rating. Scores outside 1 to 5 are rejected; comments are
// stripped of markup before storage.
func (s *Store) Create(ctx context.Context, r models.Rating) (models.Rating, error) {
	if r.Score < 1 || r.Score > 5 {
		return models.Rating{}, errBadScore
	}
	switch r.ServiceType {
	case string(models.RoleDriver), string(models.RoleContractor):
	default:
		return models.Rating{}, errBadService
	}

	r.ID = primitive.NewObjectID()
	r.Comment = s.sanitizer.Sanitize(r.Comment)
	r.CreatedAt = time.Now()

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Rating{}, err
	}
	return r, nil
}

// ListForUser returns the ratings a user has submitted, newest first.
func (s *Store) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Rating, error) {
	cur, err := s.c.Find(ctx, bson.M{"usuario": userID},
		options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ratings []models.Rating
	if err := cur.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// AverageForUser returns the mean score and count for a user. A user with no
// ratings averages zero over zero.
func (s *Store) AverageForUser(ctx context.Context, userID primitive.ObjectID) (float64, int, error) {
	ratings, err := s.ListForUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	if len(ratings) == 0 {
		return 0, 0, nil
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Score
	}
	return float64(sum) / float64(len(ratings)), len(ratings), nil
}
