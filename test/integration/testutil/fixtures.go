package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jayant413/contrashutter-backend/pkg/client"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const DefaultPassword = "s3cret-pass"

// NewRegistration builds a registration with a unique email and a valid
// Indian mobile number.
func NewRegistration(role string) model.RegisterRequest {
	n := rand.Intn(100_000_000)
	return model.RegisterRequest{
		Fullname: "Integration User",
		Email:    fmt.Sprintf("it-%08d@example.com", n),
		Contact:  fmt.Sprintf("+9198%08d", n),
		Password: DefaultPassword,
		Role:     role,
	}
}

// SignedIn registers a new user with role and logs c in as them.
func SignedIn(t *testing.T, c *client.APIClient, role string) model.RegisterRequest {
	t.Helper()

	reg := NewRegistration(role)
	resp, err := c.Register(reg)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode, client.GetErrorMessage(resp))

	resp, err = c.Login(model.LoginRequest{Email: reg.Email, Password: reg.Password, Role: reg.Role})
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode, client.GetErrorMessage(resp))
	return reg
}

type BookingBuilder struct {
	req model.CreateBookingRequest
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		req: model.CreateBookingRequest{
			BasicInfo: &model.BasicInfo{
				FullName:    "Integration Client",
				PhoneNumber: "+919812345678",
				City:        "Pune",
			},
			EventDetails: &model.EventDetails{
				EventName:      "Wedding",
				NumberOfGuests: 150,
				VenueCity:      "Pune",
			},
			PaymentDetails: model.PaymentRequest{PaymentType: 1},
			PackageDetails: model.PackageSnapshot{
				EventName:   "Wedding",
				ServiceName: "Photography",
				Name:        "Gold",
				Price:       30000,
			},
			AgreeToTerms:          true,
			ConfirmBookingDetails: true,
		},
	}
}

func (b *BookingBuilder) WithPrice(price float64) *BookingBuilder {
	b.req.PackageDetails.Price = price
	return b
}

func (b *BookingBuilder) WithInstallments(n int) *BookingBuilder {
	b.req.PaymentDetails.PaymentType = model.FlexInt(n)
	return b
}

func (b *BookingBuilder) Build() model.CreateBookingRequest {
	return b.req
}
