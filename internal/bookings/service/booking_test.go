package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingserrors "github.com/jayant413/contrashutter-backend/internal/bookings/errors"
	"github.com/jayant413/contrashutter-backend/internal/bookings/validator"
	notificationsservice "github.com/jayant413/contrashutter-backend/internal/notifications/service"
	partnerserrors "github.com/jayant413/contrashutter-backend/internal/partners/errors"
	userserrors "github.com/jayant413/contrashutter-backend/internal/users/errors"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/events"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const (
	clientID  = "64b000000000000000000001"
	adminID   = "64b000000000000000000002"
	ownerID   = "64b000000000000000000003"
	partnerID = "64c000000000000000000001"
)

type memoryBookings struct {
	mu       sync.Mutex
	seq      int
	bookings map[string]*model.Booking
	order    []string
	txCalls  int
	failTx   error
}

func newMemoryBookings() *memoryBookings {
	return &memoryBookings{bookings: map[string]*model.Booking{}}
}

func (m *memoryBookings) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	b.ID = fmt.Sprintf("64a%021x", m.seq)
	b.BookingNo = fmt.Sprintf("CS%05d", m.seq)
	cp := *b
	m.bookings[b.ID] = &cp
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memoryBookings) get(id string) (*model.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}
	cp := *b
	if b.PaymentDetails != nil {
		pd := *b.PaymentDetails
		cp.PaymentDetails = &pd
	}
	cp.Invoices = append([]string(nil), b.Invoices...)
	cp.StatusHistory = append([]model.StatusEntry(nil), b.StatusHistory...)
	return &cp, nil
}

func (m *memoryBookings) FindByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

func (m *memoryBookings) filter(keep func(*model.Booking) bool) []*model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.Booking{}
	for i := len(m.order) - 1; i >= 0; i-- {
		b, _ := m.get(m.order[i])
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (m *memoryBookings) FindAll(context.Context) ([]*model.Booking, error) {
	return m.filter(func(*model.Booking) bool { return true }), nil
}

func (m *memoryBookings) FindByUser(_ context.Context, userID string) ([]*model.Booking, error) {
	return m.filter(func(b *model.Booking) bool { return b.UserID == userID }), nil
}

func (m *memoryBookings) FindByPartner(_ context.Context, partnerID string) ([]*model.Booking, error) {
	return m.filter(func(b *model.Booking) bool { return b.ServicePartner == partnerID }), nil
}

func (m *memoryBookings) PushStatus(_ context.Context, id, status string, at time.Time) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	b.Status = status
	b.StatusHistory = append(b.StatusHistory, model.StatusEntry{Status: status, UpdatedAt: at})
	return m.get(id)
}

func (m *memoryBookings) PushAssignment(_ context.Context, id, partnerID, assignedStatus string, at time.Time) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	b.AssignedStatus = assignedStatus
	b.ServicePartner = partnerID
	if assignedStatus == model.AssignmentRejected {
		b.ServicePartner = ""
	}
	entry := model.AssignmentEntry{Status: assignedStatus, UpdatedAt: at, ServicePartner: partnerID}
	b.AssignedStatusHistory = append([]model.AssignmentEntry{entry}, b.AssignedStatusHistory...)
	return m.get(id)
}

func (m *memoryBookings) AddInvoice(_ context.Context, id, invoiceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return bookingserrors.ErrNotFound
	}
	b.Invoices = append(b.Invoices, invoiceID)
	return nil
}

func (m *memoryBookings) Replace(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return bookingserrors.ErrNotFound
	}
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memoryBookings) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	m.txCalls++
	if m.failTx != nil {
		return m.failTx
	}
	return fn(ctx)
}

type memoryInvoices struct {
	mu    sync.Mutex
	seq   int
	items []*model.Invoice
}

func (m *memoryInvoices) Create(_ context.Context, inv *model.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	inv.ID = fmt.Sprintf("64d%021x", m.seq)
	inv.InvoiceNo = fmt.Sprintf("CSIV%06d", m.seq)
	m.items = append(m.items, inv)
	return nil
}

func (m *memoryInvoices) FindByIDs(_ context.Context, ids []string) ([]*model.Invoice, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*model.Invoice
	for _, inv := range m.items {
		if want[inv.ID] {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memoryInvoices) FindByBooking(_ context.Context, bookingID string) ([]*model.Invoice, error) {
	var out []*model.Invoice
	for _, inv := range m.items {
		if inv.BookingID == bookingID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type stubUsers map[string]*model.User

func (s stubUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, userserrors.ErrNotFound
}

func (s stubUsers) FindByIDs(_ context.Context, ids []string) ([]*model.User, error) {
	var out []*model.User
	for _, id := range ids {
		if u, ok := s[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type stubPartners map[string]*model.ServicePartner

func (s stubPartners) FindByID(_ context.Context, id string) (*model.ServicePartner, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, partnerserrors.ErrNotFound
}

func (s stubPartners) FindByIDs(_ context.Context, ids []string) ([]*model.ServicePartner, error) {
	var out []*model.ServicePartner
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s stubPartners) FindByOwner(_ context.Context, userID string) (*model.ServicePartner, error) {
	for _, p := range s {
		if p.Partner == userID {
			return p, nil
		}
	}
	return nil, partnerserrors.ErrNotFound
}

type sent struct {
	to  string
	msg notificationsservice.Message
}

type recordingNotifier struct {
	pushed []sent
	admins []notificationsservice.Message
}

func (r *recordingNotifier) Push(_ context.Context, userID string, msg notificationsservice.Message) error {
	r.pushed = append(r.pushed, sent{to: userID, msg: msg})
	return nil
}

func (r *recordingNotifier) NotifyAdmins(_ context.Context, msg notificationsservice.Message) error {
	r.admins = append(r.admins, msg)
	return nil
}

type recordingPublisher struct {
	events.NoopPublisher
	bookings []events.BookingEvent
}

func (r *recordingPublisher) PublishBooking(_ context.Context, ev events.BookingEvent) error {
	r.bookings = append(r.bookings, ev)
	return nil
}

type fixture struct {
	svc       BookingService
	bookings  *memoryBookings
	invoices  *memoryInvoices
	notifier  *recordingNotifier
	publisher *recordingPublisher
}

func newFixture(strict bool) *fixture {
	log := logger.Discard()
	f := &fixture{
		bookings:  newMemoryBookings(),
		invoices:  &memoryInvoices{},
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	users := stubUsers{
		clientID: {ID: clientID, Fullname: "Asha Rao", Email: "asha@example.com", Role: model.RoleClient},
		adminID:  {ID: adminID, Fullname: "Admin", Email: "admin@example.com", Role: model.RoleAdmin},
		ownerID:  {ID: ownerID, Fullname: "Lens Works", Email: "lens@example.com", Role: model.RoleServiceProvider},
	}
	partners := stubPartners{
		partnerID: {ID: partnerID, Name: "Lens Works Studio", Partner: ownerID, Status: model.PartnerStatusActive},
	}
	cfg := &config.Config{Log: log, BookingStrictLifecycle: strict}
	f.svc = NewBookingService(f.bookings, f.invoices, users, partners, f.notifier, f.publisher, validator.NewBookingValidator(log), cfg)
	return f
}

func createRequest(price float64, installments int) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		BasicInfo: &model.BasicInfo{FullName: "Asha Rao", Email: "asha@example.com"},
		PaymentDetails: model.PaymentRequest{
			PaymentType:       model.FlexInt(installments),
			RazorpayOrderID:   "order_1",
			RazorpayPaymentID: "pay_1",
		},
		PackageDetails: model.PackageSnapshot{Name: "Gold", Price: price},
		AgreeToTerms:   true,
	}
}

func (f *fixture) create(t *testing.T, price float64, installments int) *model.Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), clientID, createRequest(price, installments))
	require.NoError(t, err)
	return b
}

func statusCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T", err)
	return appErr.StatusCode()
}

func TestCreate_ThreeInstallments(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 10000, 3)

	assert.Equal(t, "CS00001", b.BookingNo)
	assert.Equal(t, clientID, b.UserID)
	assert.Equal(t, model.StatusBooked, b.Status)
	require.Len(t, b.StatusHistory, 1)
	assert.Equal(t, model.StatusBooked, b.StatusHistory[0].Status)

	require.NotNil(t, b.PaymentDetails)
	assert.Equal(t, 3, b.PaymentDetails.Installment)
	assert.Equal(t, 10000.0, b.PaymentDetails.PayablePrice)
	assert.Equal(t, 3000.0, b.PaymentDetails.PaidAmount)
	assert.Equal(t, 7000.0, b.PaymentDetails.DueAmount)
	assert.Equal(t, model.PaymentPending, b.PaymentDetails.PaymentStatus)

	require.Len(t, f.invoices.items, 1)
	inv := f.invoices.items[0]
	assert.Equal(t, model.InvoiceInitial, inv.PaymentType)
	assert.Equal(t, 3000.0, inv.PaidAmount)
	assert.Equal(t, 7000.0, inv.DueAmount)
	assert.Equal(t, "order_1", inv.RazorpayOrderID)
	assert.Equal(t, b.ID, inv.BookingID)

	stored, err := f.bookings.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{inv.ID}, stored.Invoices)
	assert.Equal(t, 1, f.bookings.txCalls)

	require.Len(t, f.publisher.bookings, 1)
	ev := f.publisher.bookings[0]
	assert.Equal(t, events.BookingCreated, ev.Type)
	assert.Equal(t, "asha@example.com", ev.ClientEmail)
	assert.Equal(t, inv.InvoiceNo, ev.InvoiceNo)
}

func TestCreate_FullPayment(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 4500, 1)

	assert.Equal(t, 4500.0, b.PaymentDetails.PaidAmount)
	assert.Equal(t, 0.0, b.PaymentDetails.DueAmount)
	assert.Equal(t, model.PaymentTypeFull, b.PaymentDetails.PaymentType)
	assert.Equal(t, model.PaymentCompleted, b.PaymentDetails.PaymentStatus)
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		req    *model.CreateBookingRequest
		status int
	}{
		{name: "unknown user", userID: "64b0000000000000000000ff", req: createRequest(1000, 1), status: http.StatusNotFound},
		{name: "missing installment", userID: clientID, req: createRequest(1000, 0), status: http.StatusBadRequest},
		{name: "zero price", userID: clientID, req: createRequest(0, 1), status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			_, err := f.svc.Create(context.Background(), tt.userID, tt.req)
			assert.Equal(t, tt.status, statusCode(t, err))
			assert.Empty(t, f.invoices.items)
		})
	}
}

func TestCreate_TransactionFailure(t *testing.T) {
	f := newFixture(false)
	f.bookings.failTx = fmt.Errorf("write conflict")

	_, err := f.svc.Create(context.Background(), clientID, createRequest(1000, 1))
	assert.Equal(t, http.StatusInternalServerError, statusCode(t, err))
	assert.Empty(t, f.publisher.bookings)
}

func TestUpdate_Payment(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 10000, 3)

	paid := 7000.0
	due := 3000.0
	res, err := f.svc.Update(context.Background(), clientID, b.ID, &model.BookingUpdate{
		Kind:    model.UpdatePayment,
		Payment: &model.PaymentPatch{PaidAmount: &paid, DueAmount: &due, RazorpayPaymentID: "pay_2"},
	})
	require.NoError(t, err)
	assert.Equal(t, MsgPayment, res.Message)

	require.Len(t, f.invoices.items, 2)
	inv := f.invoices.items[1]
	assert.Equal(t, model.InvoiceSecondInstallment, inv.PaymentType)
	assert.Equal(t, 4000.0, inv.PaidAmount)
	assert.Equal(t, 3000.0, inv.DueAmount)
	assert.Equal(t, "pay_2", inv.RazorpayPaymentID)

	assert.Equal(t, 7000.0, res.Booking.PaymentDetails.PaidAmount)
	assert.Len(t, res.Booking.Invoices, 2)
	assert.Equal(t, "asha@example.com", res.Booking.User.Email)

	require.Len(t, f.notifier.pushed, 1)
	assert.Equal(t, clientID, f.notifier.pushed[0].to)
	assert.Equal(t, "Your balance payment of ₹4000 has been received successfully", f.notifier.pushed[0].msg.Message)
	require.Len(t, f.notifier.admins, 1)
	assert.Equal(t, "Booking "+b.BookingNo, f.notifier.admins[0].Title)
	assert.Equal(t, "/admin/bookings/"+b.ID, f.notifier.admins[0].RedirectPath)
}

func TestUpdate_OrderedSettlesBalance(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 10000, 3)

	res, err := f.svc.Update(context.Background(), clientID, b.ID, &model.BookingUpdate{Kind: model.UpdateOrdered, Ordered: true})
	require.NoError(t, err)
	assert.Equal(t, MsgOrdered, res.Message)
	assert.True(t, res.Booking.Ordered)

	require.Len(t, f.invoices.items, 2)
	final := f.invoices.items[1]
	assert.Equal(t, model.InvoiceFinalSettlement, final.PaymentType)
	assert.Equal(t, 7000.0, final.PaidAmount)
	assert.Equal(t, 0.0, final.DueAmount)
	assert.Equal(t, model.DefaultPaymentMethod, final.PaymentMethod)

	pd := res.Booking.PaymentDetails
	assert.Equal(t, 10000.0, pd.PaidAmount)
	assert.Equal(t, 0.0, pd.DueAmount)
	assert.Equal(t, model.PaymentCompleted, pd.PaymentStatus)

	require.Len(t, f.notifier.admins, 1)
	assert.Equal(t, "New Order for "+b.BookingNo, f.notifier.admins[0].Title)

	// A second order call has nothing left to settle.
	_, err = f.svc.Update(context.Background(), clientID, b.ID, &model.BookingUpdate{Kind: model.UpdateOrdered, Ordered: true})
	require.NoError(t, err)
	assert.Len(t, f.invoices.items, 2)
}

func TestUpdate_OrderedSingleInstallment(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 5000, 1)

	_, err := f.svc.Update(context.Background(), clientID, b.ID, &model.BookingUpdate{Kind: model.UpdateOrdered, Ordered: true})
	require.NoError(t, err)
	assert.Len(t, f.invoices.items, 1)
}

func TestUpdate_Status(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 5000, 1)

	_, err := f.svc.Update(context.Background(), adminID, b.ID, &model.BookingUpdate{
		Kind:           model.UpdateAssignment,
		ServicePartner: partnerID,
		AssignedStatus: model.AssignmentRequested,
	})
	require.NoError(t, err)
	f.notifier.pushed = nil

	res, err := f.svc.Update(context.Background(), adminID, b.ID, &model.BookingUpdate{Kind: model.UpdateStatus, Status: model.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, MsgStatus, res.Message)
	assert.Equal(t, model.StatusInProgress, res.Booking.Status)
	require.Len(t, res.Booking.StatusHistory, 2)
	assert.Equal(t, model.StatusInProgress, res.Booking.StatusHistory[1].Status)

	require.Len(t, f.notifier.pushed, 2)
	assert.Equal(t, clientID, f.notifier.pushed[0].to)
	assert.Equal(t, "Your booking status has been updated to In Progress", f.notifier.pushed[0].msg.Message)
	assert.Equal(t, ownerID, f.notifier.pushed[1].to)
	assert.Equal(t, "/partner/bookings/"+b.ID, f.notifier.pushed[1].msg.RedirectPath)

	last := f.publisher.bookings[len(f.publisher.bookings)-1]
	assert.Equal(t, events.BookingStatusChanged, last.Type)
	assert.Equal(t, model.StatusInProgress, last.Status)
}

func TestUpdate_StatusLifecycle(t *testing.T) {
	tests := []struct {
		name   string
		strict bool
		status string
		want   int
	}{
		{name: "permissive allows skipping ahead", strict: false, status: model.StatusCompleted, want: http.StatusOK},
		{name: "strict rejects skipping ahead", strict: true, status: model.StatusCompleted, want: http.StatusConflict},
		{name: "strict allows next step", strict: true, status: model.StatusInProgress, want: http.StatusOK},
		{name: "unknown status", strict: false, status: "Shipped", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.strict)
			b := f.create(t, 5000, 1)

			_, err := f.svc.Update(context.Background(), adminID, b.ID, &model.BookingUpdate{Kind: model.UpdateStatus, Status: tt.status})
			if tt.want == http.StatusOK {
				require.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, statusCode(t, err))

			stored, err := f.bookings.FindByID(context.Background(), b.ID)
			require.NoError(t, err)
			assert.Equal(t, model.StatusBooked, stored.Status)
		})
	}
}

func TestUpdate_Assignment(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 5000, 1)
	ctx := context.Background()

	res, err := f.svc.Update(ctx, adminID, b.ID, &model.BookingUpdate{
		Kind:           model.UpdateAssignment,
		ServicePartner: partnerID,
		AssignedStatus: model.AssignmentRequested,
	})
	require.NoError(t, err)
	assert.Equal(t, MsgAssignment, res.Message)
	require.NotNil(t, res.Booking.ServicePartner)
	assert.Equal(t, "Lens Works Studio", res.Booking.ServicePartner.Name)
	require.Len(t, f.notifier.pushed, 1)
	assert.Equal(t, ownerID, f.notifier.pushed[0].to)
	assert.Equal(t, "Booking Requested", f.notifier.pushed[0].msg.Title)
	assert.Empty(t, f.notifier.admins)

	_, err = f.svc.Update(ctx, ownerID, b.ID, &model.BookingUpdate{
		Kind:           model.UpdateAssignment,
		ServicePartner: partnerID,
		AssignedStatus: model.AssignmentAccepted,
	})
	require.NoError(t, err)
	require.Len(t, f.notifier.admins, 1)
	assert.Equal(t, "Booking Accepted", f.notifier.admins[0].Title)
	assert.Equal(t, "Service partner has accepted the booking", f.notifier.admins[0].Message)
}

func TestUpdate_AssignmentRejectedClearsPartner(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 5000, 1)
	ctx := context.Background()

	for _, status := range []string{model.AssignmentRequested, model.AssignmentRejected} {
		_, err := f.svc.Update(ctx, adminID, b.ID, &model.BookingUpdate{
			Kind:           model.UpdateAssignment,
			ServicePartner: partnerID,
			AssignedStatus: status,
		})
		require.NoError(t, err)
	}

	stored, err := f.bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ServicePartner)
	assert.Equal(t, model.AssignmentRejected, stored.AssignedStatus)
	require.Len(t, stored.AssignedStatusHistory, 2)
	assert.Equal(t, model.AssignmentRejected, stored.AssignedStatusHistory[0].Status)
}

func TestUpdate_AssignmentInvalidPartner(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 5000, 1)

	_, err := f.svc.Update(context.Background(), adminID, b.ID, &model.BookingUpdate{
		Kind:           model.UpdateAssignment,
		ServicePartner: "not-an-id",
		AssignedStatus: model.AssignmentRequested,
	})
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
	assert.Equal(t, "Invalid Service Provider ID format", appErr.Message)
}

func TestUpdate_FullWithStatus(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 5000, 1)
	agree := false

	res, err := f.svc.Update(context.Background(), adminID, b.ID, &model.BookingUpdate{
		Kind:   model.UpdateFull,
		Status: model.StatusCancelled,
		Fields: model.BookingFields{
			EventDetails: &model.EventDetails{EventName: "Wedding", NumberOfGuests: 200},
			AgreeToTerms: &agree,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, MsgUpdated, res.Message)
	assert.Equal(t, "Wedding", res.Booking.EventDetails.EventName)
	assert.False(t, res.Booking.AgreeToTerms)
	assert.Equal(t, "Asha Rao", res.Booking.BasicInfo.FullName)
	assert.Equal(t, model.StatusCancelled, res.Booking.Status)
	assert.Len(t, res.Booking.StatusHistory, 2)
	assert.Empty(t, f.notifier.pushed)
}

func TestUpdate_FullRejectsBadAssignment(t *testing.T) {
	tests := []struct {
		name           string
		servicePartner string
		assignedStatus string
	}{
		{name: "unknown assignment status", assignedStatus: "Bogus"},
		{name: "partner is not an object id", servicePartner: "not-an-object-id"},
		{name: "both", servicePartner: "not-an-object-id", assignedStatus: "Bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(false)
			b := f.create(t, 5000, 1)

			_, err := f.svc.Update(context.Background(), adminID, b.ID, &model.BookingUpdate{
				Kind:           model.UpdateFull,
				ServicePartner: tt.servicePartner,
				AssignedStatus: tt.assignedStatus,
			})
			assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

			stored := f.bookings.bookings[b.ID]
			assert.Empty(t, stored.AssignedStatus)
			assert.Empty(t, stored.ServicePartner)
		})
	}
}

func TestUpdate_NotFoundAndInvalidID(t *testing.T) {
	f := newFixture(false)

	_, err := f.svc.Update(context.Background(), adminID, "bad", &model.BookingUpdate{Kind: model.UpdateOrdered})
	assert.Equal(t, http.StatusBadRequest, statusCode(t, err))

	_, err = f.svc.Update(context.Background(), adminID, "64a0000000000000000000ff", &model.BookingUpdate{Kind: model.UpdateOrdered})
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, http.StatusNotFound, appErr.StatusCode())
	assert.Equal(t, "Booking not found", appErr.Message)
}

func TestList_ScopedByRole(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	first := f.create(t, 5000, 1)
	f.create(t, 8000, 1)

	_, err := f.svc.Update(ctx, adminID, first.ID, &model.BookingUpdate{
		Kind:           model.UpdateAssignment,
		ServicePartner: partnerID,
		AssignedStatus: model.AssignmentRequested,
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		viewer *auth.UserClaims
		want   int
	}{
		{name: "anonymous", viewer: nil, want: 0},
		{name: "admin", viewer: &auth.UserClaims{UserID: adminID, Role: model.RoleAdmin}, want: 2},
		{name: "client", viewer: &auth.UserClaims{UserID: clientID, Role: model.RoleClient}, want: 2},
		{name: "partner owner", viewer: &auth.UserClaims{UserID: ownerID, Role: model.RoleServiceProvider}, want: 1},
		{name: "provider without profile", viewer: &auth.UserClaims{UserID: adminID, Role: model.RoleServiceProvider}, want: 0},
		{name: "unknown role", viewer: &auth.UserClaims{UserID: clientID, Role: "Guest"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views, err := f.svc.List(ctx, tt.viewer)
			require.NoError(t, err)
			assert.Len(t, views, tt.want)
		})
	}
}

func TestGetByUserID(t *testing.T) {
	f := newFixture(false)

	_, err := f.svc.GetByUserID(context.Background(), clientID)
	require.Error(t, err)
	assert.Equal(t, "No bookings found for this user", apperrors.AsAppError(err).Message)

	f.create(t, 5000, 1)
	bookings, err := f.svc.GetByUserID(context.Background(), clientID)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestGetInvoices(t *testing.T) {
	f := newFixture(false)
	b := f.create(t, 10000, 3)

	invoices, err := f.svc.GetInvoices(context.Background(), b.ID)
	require.NoError(t, err)
	require.Len(t, invoices, 1)
	assert.Equal(t, "CSIV000001", invoices[0].InvoiceNo)

	_, err = f.svc.GetInvoices(context.Background(), "64a0000000000000000000ff")
	assert.Equal(t, http.StatusNotFound, statusCode(t, err))
}
