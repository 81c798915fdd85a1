package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Affiliation is one edge in the contractor↔driver relation. A unique
// compound index on (contractor_id, driver_id) makes membership idempotent at
// the storage layer; the store surfaces the duplicate-key error as a typed
// conflict.
//
// Earlier versions kept a driver-id list on the contractor document plus a
// boolean flag on the driver; both were replaced by this edge collection so
// "drivers affiliated to me" and "contractors I'm affiliated to" are the same
// relation queried from either side.
type Affiliation struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Contractor primitive.ObjectID `bson:"contractor_id" json:"contractor_id"`
	Driver     primitive.ObjectID `bson:"driver_id" json:"driver_id"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
