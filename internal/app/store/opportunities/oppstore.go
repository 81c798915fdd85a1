// Package oppstore persists freight opportunities and owns their lifecycle.
//
// Every transition is one conditional FindOneAndUpdate whose filter encodes
// the full guard (current state plus actor ownership). Two drivers racing to
// accept the same load, or a cancel racing a start, resolve inside MongoDB:
// exactly one writer matches, the rest get a typed error.
package oppstore

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
	return &Store{c: db.Collection("opportunities")}
}

// EnsureIndexes creates the indexes for the opportunities collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "estado", Value: 1}, {Key: "fecha", Value: 1}},
			Options: options.Index().SetName("idx_opp_estado_fecha"),
		},
		{
			Keys:    bson.D{{Key: "contratista", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_opp_contratista"),
		},
		{
			Keys:    bson.D{{Key: "camioneroAsignado", Value: 1}, {Key: "estado", Value: 1}},
			Options: options.Index().SetName("idx_opp_camionero_estado"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

var (
	// ErrNotFound is returned when no opportunity matches the id.
	ErrNotFound = errors.New("oportunidad no encontrada")
	// ErrNotAvailable is returned when a driver tries to take a load that is
	// no longer disponible.
	ErrNotAvailable = errors.New("la oportunidad ya no está disponible")
	// ErrInvalidState is returned when the transition is not legal from the
	// load's current state.
	ErrInvalidState = errors.New("transición de estado no permitida")
	// ErrForbidden is returned when the actor does not own the load side it
	// is trying to move.
	ErrForbidden = errors.New("no autorizado para esta oportunidad")
	// ErrDriverBusy is returned when the driver already has an active trip.
	ErrDriverBusy = errors.New("el camionero ya tiene un viaje activo")

	errTitleNeeded      = errors.New("titulo is required")
	errRouteNeeded      = errors.New("origen and destino are required")
	errPriceNeeded      = errors.New("precio must be positive")
	errContractorNeeded = errors.New("contratista is required")
)

// Create inserts a new opportunity. It always starts disponible with no
// assigned driver, regardless of what the caller set.
func (s *Store) Create(ctx context.Context, o models.Opportunity) (models.Opportunity, error) {
	if o.Title == "" {
		return models.Opportunity{}, errTitleNeeded
	}
	if o.Origin == "" || o.Destination == "" {
		return models.Opportunity{}, errRouteNeeded
	}
	if o.Price <= 0 {
		return models.Opportunity{}, errPriceNeeded
	}
	if o.Contractor.IsZero() {
		return models.Opportunity{}, errContractorNeeded
	}

	o.ID = primitive.NewObjectID()
	o.Status = models.StatusAvailable
	o.Finished = false
	o.AssignedDriver = nil
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Date.IsZero() {
		o.Date = now
	}

	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Opportunity{}, err
	}
	return o, nil
}

// GetByID loads one opportunity.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Opportunity, error) {
	var o models.Opportunity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAvailable lists loads open for drivers to take, soonest pickup first.
func (s *Store) FindAvailable(ctx context.Context) ([]models.Opportunity, error) {
	return s.find(ctx, bson.M{"estado": models.StatusAvailable},
		options.Find().SetSort(bson.D{{Key: "fecha", Value: 1}}))
}

// FindByContractor lists a contractor's loads, newest first.
func (s *Store) FindByContractor(ctx context.Context, contractorID primitive.ObjectID) ([]models.Opportunity, error) {
	return s.find(ctx, bson.M{"contratista": contractorID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// FindByDriver lists every load ever assigned to the driver, newest first.
// Finished trips stay in this view; it backs the trip history screen.
func (s *Store) FindByDriver(ctx context.Context, driverID primitive.ObjectID) ([]models.Opportunity, error) {
	return s.find(ctx, bson.M{"camioneroAsignado": driverID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
}

// FindActiveForDriver returns the driver's current trip, or ErrNotFound when
// the driver has none. A driver holds at most one active trip.
func (s *Store) FindActiveForDriver(ctx context.Context, driverID primitive.ObjectID) (*models.Opportunity, error) {
	var o models.Opportunity
	err := s.c.FindOne(ctx, bson.M{
		"camioneroAsignado": driverID,
		"estado":            bson.M{"$in": models.ActiveStatuses},
	}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Accept claims a disponible load for the driver. The one-active-trip rule is
// checked first; the claim itself is a conditional update so two drivers
// racing for the same load cannot both win.
func (s *Store) Accept(ctx context.Context, id, driverID primitive.ObjectID) (*models.Opportunity, error) {
	if _, err := s.FindActiveForDriver(ctx, driverID); err == nil {
		return nil, ErrDriverBusy
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	o, err := s.transition(ctx,
		bson.M{"_id": id, "estado": models.StatusAvailable},
		bson.M{"estado": models.StatusAssigned, "camioneroAsignado": driverID},
	)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	// Guard failed: tell the caller which part.
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrNotAvailable
}

// Assign lets the owning contractor hand a disponible load to a specific
// driver directly.
func (s *Store) Assign(ctx context.Context, id, contractorID, driverID primitive.ObjectID) (*models.Opportunity, error) {
	if _, err := s.FindActiveForDriver(ctx, driverID); err == nil {
		return nil, ErrDriverBusy
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	o, err := s.transition(ctx,
		bson.M{"_id": id, "contratista": contractorID, "estado": models.StatusAvailable},
		bson.M{"estado": models.StatusAssigned, "camioneroAsignado": driverID},
	)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	cur, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if cur.Contractor != contractorID {
		return nil, ErrForbidden
	}
	return nil, ErrNotAvailable
}

// Start moves the driver's asignada trip to en_ruta. Starting a trip that is
// already en_ruta is idempotent; the mobile app retries this call on flaky
// networks.
func (s *Store) Start(ctx context.Context, id, driverID primitive.ObjectID) (*models.Opportunity, error) {
	o, err := s.transition(ctx,
		bson.M{"_id": id, "camioneroAsignado": driverID, "estado": models.StatusAssigned},
		bson.M{"estado": models.StatusEnRoute},
	)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	cur, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if cur.AssignedDriver == nil || *cur.AssignedDriver != driverID {
		return nil, ErrForbidden
	}
	if cur.Status == models.StatusEnRoute {
		return cur, nil
	}
	return nil, ErrInvalidState
}

// Cancel releases the driver's active trip back to disponible and detaches
// the driver. The load becomes claimable again.
func (s *Store) Cancel(ctx context.Context, id, driverID primitive.ObjectID) (*models.Opportunity, error) {
	filter := bson.M{
		"_id":               id,
		"camioneroAsignado": driverID,
		"estado":            bson.M{"$in": models.ActiveStatuses},
	}
	update := bson.M{
		"$set":   bson.M{"estado": models.StatusAvailable, "updated_at": time.Now()},
		"$unset": bson.M{"camioneroAsignado": ""},
	}
	var o models.Opportunity
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	cur, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if cur.AssignedDriver == nil || *cur.AssignedDriver != driverID {
		return nil, ErrForbidden
	}
	return nil, ErrInvalidState
}

// FinishByDriver completes the driver's en_ruta trip.
func (s *Store) FinishByDriver(ctx context.Context, id, driverID primitive.ObjectID) (*models.Opportunity, error) {
	o, err := s.transition(ctx,
		bson.M{"_id": id, "camioneroAsignado": driverID, "estado": models.StatusEnRoute},
		bson.M{"estado": models.StatusFinished, "finalizada": true},
	)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	cur, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if cur.AssignedDriver == nil || *cur.AssignedDriver != driverID {
		return nil, ErrForbidden
	}
	return nil, ErrInvalidState
}

// FinishByContractor lets the owning contractor close a load from any
// non-terminal state, including disponible loads nobody took.
func (s *Store) FinishByContractor(ctx context.Context, id, contractorID primitive.ObjectID) (*models.Opportunity, error) {
	o, err := s.transition(ctx,
		bson.M{"_id": id, "contratista": contractorID, "estado": bson.M{"$ne": models.StatusFinished}},
		bson.M{"estado": models.StatusFinished, "finalizada": true},
	)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	cur, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if cur.Contractor != contractorID {
		return nil, ErrForbidden
	}
	return nil, ErrInvalidState
}

// transition applies set fields to the single document matching filter and
// returns the updated document, or mongo.ErrNoDocuments when the guard in the
// filter did not match.
func (s *Store) transition(ctx context.Context, filter bson.M, set bson.M) (*models.Opportunity, error) {
	set["updated_at"] = time.Now()
	var o models.Opportunity
	err := s.c.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Opportunity, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var opps []models.Opportunity
	if err := cur.All(ctx, &opps); err != nil {
		return nil, err
	}
	return opps, nil
}
