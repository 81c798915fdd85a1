package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OpportunityStatus is the lifecycle state of a posted load.
//
// The only forward path is disponible → asignada → en_ruta → finalizada.
// Cancellation moves asignada/en_ruta back to disponible. finalizada is
// terminal. The wire values are Spanish because the mobile clients and the
// existing production data use them.
type OpportunityStatus string

const (
	StatusAvailable OpportunityStatus = "disponible"
	StatusAssigned  OpportunityStatus = "asignada"
	StatusEnRoute   OpportunityStatus = "en_ruta"
	StatusFinished  OpportunityStatus = "finalizada"
)

// Valid reports whether s is one of the four lifecycle states.
func (s OpportunityStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusAssigned, StatusEnRoute, StatusFinished:
		return true
	}
	return false
}

// Active reports whether the load occupies its driver: a driver may hold at
// most one opportunity in an active state at a time.
func (s OpportunityStatus) Active() bool {
	return s == StatusAssigned || s == StatusEnRoute
}

// Terminal reports whether no further transition is permitted.
func (s OpportunityStatus) Terminal() bool {
	return s == StatusFinished
}

// ActiveStatuses is the filter value for "driver currently has a trip".
var ActiveStatuses = []OpportunityStatus{StatusAssigned, StatusEnRoute}

// Opportunity is a posted freight load.
//
// Invariant maintained by the store: AssignedDriver is non-nil exactly when
// Status != disponible. Every transition is written as a single conditional
// update so concurrent actors cannot both claim the same load.
type Opportunity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"titulo" json:"titulo"`
	Description string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	Origin      string             `bson:"origen" json:"origen"`
	Destination string             `bson:"destino" json:"destino"`
	PickupAddr  string             `bson:"direccionCargue,omitempty" json:"direccionCargue,omitempty"`
	DropoffAddr string             `bson:"direccionDescargue,omitempty" json:"direccionDescargue,omitempty"`
	Date        time.Time          `bson:"fecha" json:"fecha"`
	Price       float64            `bson:"precio" json:"precio"`
	CargoWeight float64            `bson:"pesoCarga,omitempty" json:"pesoCarga,omitempty"` // tons
	CargoType   string             `bson:"tipoCarga,omitempty" json:"tipoCarga,omitempty"`
	SpecialReqs string             `bson:"requisitosEspeciales,omitempty" json:"requisitosEspeciales,omitempty"`
	DistanceKm  float64            `bson:"distanciaKm,omitempty" json:"distanciaKm,omitempty"`
	DurationHrs float64            `bson:"duracionEstimadaHoras,omitempty" json:"duracionEstimadaHoras,omitempty"`

	Status   OpportunityStatus `bson:"estado" json:"estado"`
	Finished bool              `bson:"finalizada" json:"finalizada"`

	Contractor     primitive.ObjectID  `bson:"contratista" json:"contratista"`
	AssignedDriver *primitive.ObjectID `bson:"camioneroAsignado,omitempty" json:"camioneroAsignado,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
