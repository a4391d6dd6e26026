package model

import "time"

type ServicePartner struct {
	ID                 string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Name               string    `json:"name" bson:"name" validate:"required,max=200"`
	RegistrationNumber string    `json:"registrationNumber,omitempty" bson:"registrationNumber,omitempty"`
	ContactPerson      string    `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	ContactNumber      string    `json:"contactNumber,omitempty" bson:"contactNumber,omitempty"`
	Email              string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	BusinessAddress    string    `json:"businessAddress,omitempty" bson:"businessAddress,omitempty"`
	Employees          string    `json:"employees,omitempty" bson:"employees,omitempty"`
	Experience         string    `json:"experience,omitempty" bson:"experience,omitempty"`
	Projects           string    `json:"projects,omitempty" bson:"projects,omitempty"`
	BankName           string    `json:"bankName,omitempty" bson:"bankName,omitempty"`
	AccountNumber      string    `json:"accountNumber,omitempty" bson:"accountNumber,omitempty"`
	IFSC               string    `json:"ifsc,omitempty" bson:"ifsc,omitempty"`
	Partner            string    `json:"partner" bson:"partner"`
	Status             string    `json:"status" bson:"status" validate:"omitempty,partner_status"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PartnerView is a partner with its owning user populated.
type PartnerView struct {
	*ServicePartner
	Partner *User `json:"partner"`
}

type PartnerUpdate struct {
	Name               *string `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,max=200"`
	RegistrationNumber *string `json:"registrationNumber,omitempty" bson:"registrationNumber,omitempty"`
	ContactPerson      *string `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	ContactNumber      *string `json:"contactNumber,omitempty" bson:"contactNumber,omitempty"`
	Email              *string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	BusinessAddress    *string `json:"businessAddress,omitempty" bson:"businessAddress,omitempty"`
	Employees          *string `json:"employees,omitempty" bson:"employees,omitempty"`
	Experience         *string `json:"experience,omitempty" bson:"experience,omitempty"`
	Projects           *string `json:"projects,omitempty" bson:"projects,omitempty"`
	BankName           *string `json:"bankName,omitempty" bson:"bankName,omitempty"`
	AccountNumber      *string `json:"accountNumber,omitempty" bson:"accountNumber,omitempty"`
	IFSC               *string `json:"ifsc,omitempty" bson:"ifsc,omitempty"`
	Status             *string `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,partner_status"`
	UpdatedBy          string  `json:"updatedBy,omitempty" bson:"-" validate:"omitempty,objectid"`
}
