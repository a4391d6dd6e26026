package client

import (
	"fmt"
	"net/url"

	"github.com/jayant413/contrashutter-backend/pkg/model"
)

// APIClient drives the public HTTP API with a cookie session, the way the
// web frontend does. Black-box tests use it.
type APIClient struct {
	http *HttpClient
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{http: NewHttpClient(baseURL, WithCookieJar())}
}

func (c *APIClient) HTTP() *HttpClient {
	return c.http
}

func (c *APIClient) Register(req model.RegisterRequest) (*Response, error) {
	return c.http.POST("/api/auth/register", req)
}

// Login stores the session cookie for later calls.
func (c *APIClient) Login(req model.LoginRequest) (*Response, error) {
	return c.http.POST("/api/auth/login", req)
}

func (c *APIClient) Logout() (*Response, error) {
	return c.http.GET("/api/auth/logout")
}

func (c *APIClient) Me() (*Response, error) {
	return c.http.GET("/api/user/me")
}

func (c *APIClient) CreateBooking(req model.CreateBookingRequest) (*Response, error) {
	return c.http.POST("/api/bookings", req)
}

func (c *APIClient) ListBookings() (*Response, error) {
	return c.http.GET("/api/bookings")
}

func (c *APIClient) GetBooking(id string) (*Response, error) {
	return c.http.GET("/api/bookings/" + url.PathEscape(id))
}

func (c *APIClient) BookingsByUser(userID string) (*Response, error) {
	return c.http.GET("/api/bookings/user/" + url.PathEscape(userID))
}

// UpdateBooking sends patch as-is. Its keys select the update branch.
func (c *APIClient) UpdateBooking(id string, patch map[string]any) (*Response, error) {
	return c.http.PUT("/api/bookings/"+url.PathEscape(id), patch)
}

func (c *APIClient) Invoices(bookingID string) (*Response, error) {
	return c.http.GET("/api/invoices/booking/" + url.PathEscape(bookingID))
}

func (c *APIClient) ListServices() (*Response, error) {
	return c.http.GET("/api/services")
}

func (c *APIClient) Banners() (*Response, error) {
	return c.http.GET("/api/banner")
}

// DecodeBooking reads a booking from a create or get response.
func DecodeBooking(resp *Response) (*model.Booking, error) {
	var booking model.Booking
	if err := resp.DecodeJSON(&booking); err != nil {
		return nil, fmt.Errorf("could not decode booking (status %d): %w", resp.StatusCode, err)
	}
	return &booking, nil
}
