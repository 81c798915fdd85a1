package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the normalized user role. Tokens issued by older builds of the
// mobile app carry the role under either "tipo" or "tipoUsuario"; the auth
// boundary folds both into this one type before anything else sees it.
type Role string

const (
	RoleRider      Role = "usuario"
	RoleDriver     Role = "camionero"
	RoleContractor Role = "contratista"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleRider, RoleDriver, RoleContractor:
		return true
	}
	return false
}

// PaymentMethods is the accepted set for User.PaymentMethod.
var PaymentMethods = []string{"Visa", "Nequi", "Efectivo"}

// Truck holds the vehicle details embedded on a driver record.
type Truck struct {
	VehicleType   string  `bson:"tipoVehiculo" json:"tipoVehiculo"`
	CargoCapacity float64 `bson:"capacidadCarga" json:"capacidadCarga"`
	Brand         string  `bson:"marca" json:"marca"`
	Model         string  `bson:"modelo" json:"modelo"`
	Plate         string  `bson:"placa" json:"placa"`
	PapersCurrent bool    `bson:"papelesAlDia" json:"papelesAlDia"`
}

// User represents riders, drivers (camioneros), and contractors
// (contratistas). Role-specific fields are optional at the type level and
// enforced by the user store on create.
//
// Affiliations are not embedded here; the affiliations collection is the
// single source of truth for the contractor↔driver relation.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"nombre,omitempty" json:"nombre,omitempty"`
	Email        string             `bson:"correo" json:"correo"`
	PasswordHash string             `bson:"contrasena" json:"-"`
	Role         Role               `bson:"tipoUsuario" json:"tipoUsuario"`

	// Driver fields
	Phone            string     `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Truck            *Truck     `bson:"camion,omitempty" json:"camion,omitempty"`
	AffiliatedCo     string     `bson:"empresaAfiliada,omitempty" json:"empresaAfiliada,omitempty"`
	LicenseIssued    *time.Time `bson:"licenciaExpedicion,omitempty" json:"licenciaExpedicion,omitempty"`
	NationalID       string     `bson:"numeroCedula,omitempty" json:"numeroCedula,omitempty"`

	// Contractor fields
	Company       string `bson:"empresa,omitempty" json:"empresa,omitempty"`
	OpenToDrivers *bool  `bson:"disponibleParaSolicitarCamioneros,omitempty" json:"disponibleParaSolicitarCamioneros,omitempty"`

	PaymentMethod string `bson:"metodoPago,omitempty" json:"metodoPago,omitempty"`
	DeviceToken   string `bson:"deviceToken,omitempty" json:"deviceToken,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsDriver reports whether the user is a camionero.
func (u *User) IsDriver() bool { return u.Role == RoleDriver }

// IsContractor reports whether the user is a contratista.
func (u *User) IsContractor() bool { return u.Role == RoleContractor }
