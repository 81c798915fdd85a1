package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is an append-only 1 to 5 review of a driver or contractor service.
// User is the rater, not the rated party; lookups are by who submitted.
type Rating struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User        primitive.ObjectID `bson:"usuario" json:"usuario"`
	ServiceType string             `bson:"tipoServicio" json:"tipoServicio"` // camionero | contratista
	Score       int                `bson:"calificacion" json:"calificacion"`
	Comment     string             `bson:"comentario,omitempty" json:"comentario,omitempty"`
	CreatedAt   time.Time          `bson:"fecha" json:"fecha"`
}
