package model

import "time"

const (
	RoleClient          = "Client"
	RoleServiceProvider = "Service Provider"
	RoleAdmin           = "Admin"
)

const (
	PartnerStatusPending  = "Pending"
	PartnerStatusActive   = "Active"
	PartnerStatusInactive = "Inactive"
)

type User struct {
	ID           string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Fullname     string    `json:"fullname" bson:"fullname" validate:"required,min=2,max=100"`
	Contact      string    `json:"contact" bson:"contact" validate:"required"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	Password     string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role" validate:"required,user_role"`
	Status       string    `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,partner_status"`
	DateOfBirth  string    `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	AadharCard   string    `json:"aadharCard,omitempty" bson:"aadharCard,omitempty"`
	PanCard      string    `json:"panCard,omitempty" bson:"panCard,omitempty"`
	Address      string    `json:"address,omitempty" bson:"address,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty" bson:"profileImage,omitempty"`
	CoverImage   string    `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	Wishlist     []string  `json:"wishlist" bson:"wishlist"`
	PartnerID    string    `json:"partnerId,omitempty" bson:"partnerId,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) HasWishlisted(packageID string) bool {
	for _, id := range u.Wishlist {
		if id == packageID {
			return true
		}
	}
	return false
}

// Profile is the user as returned by /me and /checkLogin, with the wishlist
// populated and the most recent notifications attached.
type Profile struct {
	*User
	Wishlist      []*Package      `json:"wishlist"`
	Notifications []*Notification `json:"notifications"`
}

type ProfileUpdate struct {
	Fullname    string `json:"fullname" validate:"required,min=2,max=100"`
	Contact     string `json:"contact" validate:"required"`
	Role        string `json:"role" validate:"required,user_role"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	AadharCard  string `json:"aadharCard,omitempty"`
	PanCard     string `json:"panCard,omitempty"`
	Address     string `json:"address,omitempty"`
}

// PublicUser is the projection served by GET /api/user/user/:userId.
type PublicUser struct {
	ID       string `json:"_id" bson:"_id"`
	Fullname string `json:"fullname" bson:"fullname"`
}
