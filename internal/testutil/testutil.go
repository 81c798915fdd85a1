// Package testutil holds helpers for store and handler tests. Store tests
// run against a real MongoDB when one is reachable and skip otherwise, so the
// suite passes on machines without a local instance.
package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tracknarino/backend/internal/app/system/auth"
	"github.com/tracknarino/backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupTestDB connects to the MongoDB named by TRACKNARINO_TEST_MONGO_URI
// (default mongodb://localhost:27017) and returns a database that is dropped
// when the test finishes. Tests skip when no server answers the ping.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TRACKNARINO_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongodb not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongodb not reachable at %s: %v", uri, err)
	}

	db := client.Database(fmt.Sprintf("tracknarino_test_%s", uuid.NewString()[:8]))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// TestContext returns a context with the standard test deadline.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// UniqueEmail returns an email that will not collide with other tests
// sharing the database.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}

// DriverFixture returns a valid camionero ready for userstore.Create. The
// password hash is a fixed bcrypt-shaped placeholder; tests that exercise
// login hash for real.
func DriverFixture() models.User {
	licenseIssued := time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC)
	return models.User{
		Name:          "Carlos Ruiz",
		Email:         UniqueEmail("camionero"),
		PasswordHash:  "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
		Role:          models.RoleDriver,
		Phone:         "3001234567",
		NationalID:    "1085312456",
		AffiliatedCo:  "Transportes del Sur",
		LicenseIssued: &licenseIssued,
		Truck: &models.Truck{
			VehicleType:   "camion de carga",
			CargoCapacity: 10,
			Brand:         "Kenworth",
			Model:         "T800",
			Plate:         "ABC123",
			PapersCurrent: true,
		},
	}
}

// ContractorFixture returns a valid contratista ready for userstore.Create.
func ContractorFixture() models.User {
	return models.User{
		Name:         "María López",
		Email:        UniqueEmail("contratista"),
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwxyz012345678901234567890123456",
		Role:         models.RoleContractor,
		Company:      "Transportes Nariño SAS",
	}
}

// OpportunityFixture returns a valid load owned by the given contractor.
func OpportunityFixture(contractorID primitive.ObjectID) models.Opportunity {
	return models.Opportunity{
		Title:       "Carga de café Pasto a Ipiales",
		Origin:      "Pasto",
		Destination: "Ipiales",
		Date:        time.Now().Add(24 * time.Hour),
		Price:       850000,
		CargoWeight: 8,
		CargoType:   "café",
		Contractor:  contractorID,
	}
}

// AuthedRequest builds a request carrying the identity in its context, the
// way the auth middleware would after verifying a token.
func AuthedRequest(method, target string, body io.Reader, id auth.Identity) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.WithIdentity(req.Context(), id))
}

// WithURLParam attaches a chi route parameter to the request context so
// handlers under test can read it without a full router.
func WithURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
