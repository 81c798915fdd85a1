package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleTypes is the accepted set for Vehicle.VehicleType.
var VehicleTypes = []string{"bus", "buseta", "piaggio", "camion de carga", "volqueta"}

// Vehicle is a standalone vehicle registration for a driver, kept separate
// from the truck details embedded on the user record so drivers can update
// paperwork without touching their account.
type Vehicle struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Driver        primitive.ObjectID `bson:"camioneroId" json:"camioneroId"`
	VehicleType   string             `bson:"tipoVehiculo" json:"tipoVehiculo"`
	CargoCapacity float64            `bson:"capacidadCarga" json:"capacidadCarga"`
	Brand         string             `bson:"marca" json:"marca"`
	Model         string             `bson:"modelo" json:"modelo"`
	Plate         string             `bson:"placa" json:"placa"`
	PapersCurrent bool               `bson:"papelesAlDia" json:"papelesAlDia"`
	RegisteredAt  time.Time          `bson:"fechaRegistro" json:"fechaRegistro"`
}
