package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationPing is one appended position report from a driver. The driver's
// "current location" is always derived as their most recent ping; there is no
// separate mutable location record.
type LocationPing struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Driver    primitive.ObjectID `bson:"camionero" json:"camionero"`
	Coords    Coord              `bson:"coords" json:"coords"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
