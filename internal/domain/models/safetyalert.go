package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertTypes is the accepted set of hazard categories for safety alerts.
var AlertTypes = []string{
	"trancon", "sospecha", "intento_robo", "robo",
	"obstaculo", "clima", "accidente", "policia", "otro",
}

// ValidAlertType reports whether t is a known hazard category.
func ValidAlertType(t string) bool {
	for _, v := range AlertTypes {
		if t == v {
			return true
		}
	}
	return false
}

// SafetyAlert is a road hazard reported by a user. Created once, never
// mutated. Shared controls visibility to other users (default true).
type SafetyAlert struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type        string             `bson:"tipo" json:"tipo"`
	Description string             `bson:"descripcion,omitempty" json:"descripcion,omitempty"`
	User        primitive.ObjectID `bson:"usuario" json:"usuario"`
	Coords      Coord              `bson:"coords" json:"coords"`
	Shared      bool               `bson:"compartir" json:"compartir"`
	ImageURL    string             `bson:"imagenUrl,omitempty" json:"imagenUrl,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
