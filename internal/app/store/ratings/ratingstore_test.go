package ratingstore_test

import (
	"testing"

	ratingstore "github.com/tracknarino/backend/internal/app/store/ratings"
	"github.com/tracknarino/backend/internal/domain/models"
	"github.com/tracknarino/backend/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validRating(userID primitive.ObjectID, score int) models.Rating {
	return models.Rating{
		User:        userID,
		ServiceType: "camionero",
		Score:       score,
		Comment:     "Muy puntual",
	}
}

func TestStore_CreateAndList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ratingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()

	if _, err := store.Create(ctx, validRating(user, 5)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, validRating(user, 3)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.Create(ctx, validRating(primitive.NewObjectID(), 1)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ListForUser(ctx, user)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ratings: got %d, want 2", len(got))
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ratingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()

	for _, score := range []int{0, 6, -1} {
		if _, err := store.Create(ctx, validRating(user, score)); err == nil {
			t.Errorf("score %d: expected validation error", score)
		}
	}

	r := validRating(user, 4)
	r.ServiceType = "mensajeria"
	if _, err := store.Create(ctx, r); err == nil {
		t.Error("expected error for unknown service type")
	}
}

func TestStore_Create_SanitizesComment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ratingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	r := validRating(primitive.NewObjectID(), 4)
	r.Comment = "Buen servicio <b>recomendado</b>"
	created, err := store.Create(ctx, r)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.Comment != "Buen servicio recomendado" {
		t.Errorf("comment not sanitized: got %q", created.Comment)
	}
}

func TestStore_AverageForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := ratingstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()

	avg, count, err := store.AverageForUser(ctx, user)
	if err != nil {
		t.Fatalf("AverageForUser failed: %v", err)
	}
	if avg != 0 || count != 0 {
		t.Errorf("empty average: got (%.1f, %d)", avg, count)
	}

	for _, score := range []int{5, 4, 3} {
		if _, err := store.Create(ctx, validRating(user, score)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	avg, count, err = store.AverageForUser(ctx, user)
	if err != nil {
		t.Fatalf("AverageForUser failed: %v", err)
	}
	if count != 3 || avg != 4.0 {
		t.Errorf("average: got (%.2f, %d), want (4.00, 3)", avg, count)
	}
}
