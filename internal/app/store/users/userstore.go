// Package userstore persists riders, drivers and contractors.
package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/tracknarino/backend/internal/app/system/normalize"
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
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the indexes for the users collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "correo", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_correo"),
		},
		{
			Keys:    bson.D{{Key: "tipoUsuario", Value: 1}},
			Options: options.Index().SetName("idx_users_tipo"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

var (
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("ya existe un usuario con este correo")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("usuario no encontrado")

	errBadRole       = errors.New(`tipoUsuario must be "usuario"|"camionero"|"contratista"`)
	errEmailNeeded   = errors.New("correo is required")
	errHashNeeded    = errors.New("password hash is required")
	errTruckNeeded   = errors.New("camionero must register vehicle details")
	errPhoneNeeded   = errors.New("camionero must have telefono")
	errCedulaNeeded  = errors.New("camionero must have numeroCedula")
	errAffilNeeded   = errors.New("camionero must have empresaAfiliada")
	errLicenseNeeded = errors.New("camionero must have licenciaExpedicion")
	errCompanyNeeded = errors.New("contratista must have empresa")
)

// Create inserts a new user after normalizing and validating role-specific
// fields. The password must already be hashed by the auth boundary.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)

	if u.Email == "" {
		return models.User{}, errEmailNeeded
	}
	if u.PasswordHash == "" {
		return models.User{}, errHashNeeded
	}
	if !u.Role.Valid() {
		return models.User{}, errBadRole
	}
	if u.IsDriver() {
		switch {
		case u.Truck == nil:
			return models.User{}, errTruckNeeded
		case u.Phone == "":
			return models.User{}, errPhoneNeeded
		case u.NationalID == "":
			return models.User{}, errCedulaNeeded
		case u.AffiliatedCo == "":
			return models.User{}, errAffilNeeded
		case u.LicenseIssued == nil:
			return models.User{}, errLicenseNeeded
		}
	}
	if u.IsContractor() {
		if u.Company == "" {
			return models.User{}, errCompanyNeeded
		}
		if u.OpenToDrivers == nil {
			open := true
			u.OpenToDrivers = &open
		}
	}
	if u.PaymentMethod != "" && !ValidPaymentMethod(u.PaymentMethod) {
		return models.User{}, fmt.Errorf("metodoPago must be one of %v", models.PaymentMethods)
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"correo": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListByRole returns all users with the given role, newest first.
func (s *Store) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if !role.Valid() {
		return nil, errBadRole
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"tipoUsuario": role}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePaymentMethod sets the user's payment method. Only whitelisted
// methods are accepted.
func (s *Store) UpdatePaymentMethod(ctx context.Context, id primitive.ObjectID, method string) error {
	if !ValidPaymentMethod(method) {
		return fmt.Errorf("metodoPago must be one of %v", models.PaymentMethods)
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"metodoPago": method,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateDeviceToken stores the push token for the user's current device.
// An empty token clears it.
func (s *Store) UpdateDeviceToken(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"deviceToken": token,
		"updated_at":  time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ValidPaymentMethod reports whether method is in the accepted set.
func ValidPaymentMethod(method string) bool {
	for _, m := range models.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
