package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	bookingserrors "github.com/jayant413/contrashutter-backend/internal/bookings/errors"
	"github.com/jayant413/contrashutter-backend/internal/bookings/lifecycle"
	"github.com/jayant413/contrashutter-backend/internal/bookings/payment"
	"github.com/jayant413/contrashutter-backend/internal/bookings/repository"
	"github.com/jayant413/contrashutter-backend/internal/bookings/validator"
	notificationsservice "github.com/jayant413/contrashutter-backend/internal/notifications/service"
	partnerserrors "github.com/jayant413/contrashutter-backend/internal/partners/errors"
	userserrors "github.com/jayant413/contrashutter-backend/internal/users/errors"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/events"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const (
	MsgOrdered    = "Order status updated successfully"
	MsgPayment    = "Payment details updated successfully"
	MsgStatus     = "Status updated successfully"
	MsgAssignment = "Service Provider added successfully"
	MsgUpdated    = "Booking updated successfully"
)

type UserLookup interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
}

type PartnerLookup interface {
	FindByID(ctx context.Context, id string) (*model.ServicePartner, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.ServicePartner, error)
	FindByOwner(ctx context.Context, userID string) (*model.ServicePartner, error)
}

type Notifier interface {
	Push(ctx context.Context, userID string, msg notificationsservice.Message) error
	NotifyAdmins(ctx context.Context, msg notificationsservice.Message) error
}

type UpdateResult struct {
	Message string
	Booking *model.BookingView
}

type BookingService interface {
	Create(ctx context.Context, userID string, req *model.CreateBookingRequest) (*model.Booking, error)
	List(ctx context.Context, viewer *auth.UserClaims) ([]*model.BookingView, error)
	GetByID(ctx context.Context, id string) (*model.BookingView, error)
	GetByUserID(ctx context.Context, userID string) ([]*model.Booking, error)
	GetInvoices(ctx context.Context, id string) ([]*model.Invoice, error)
	Update(ctx context.Context, actorID, id string, update *model.BookingUpdate) (*UpdateResult, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	invoices  repository.InvoiceRepository
	users     UserLookup
	partners  PartnerLookup
	notifier  Notifier
	publisher events.Publisher
	table     *lifecycle.Table
	validator *validator.BookingValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	invoices repository.InvoiceRepository,
	users UserLookup,
	partners PartnerLookup,
	notifier Notifier,
	publisher events.Publisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		invoices:  invoices,
		users:     users,
		partners:  partners,
		notifier:  notifier,
		publisher: publisher,
		table:     lifecycle.NewTable(cfg.BookingStrictLifecycle),
		validator: validator,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *bookingService) Create(ctx context.Context, userID string, req *model.CreateBookingRequest) (*model.Booking, error) {
	log := s.cfg.Log.WithContext(ctx)

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundMessage("User not found")
		}
		log.Error("Failed to load booking owner", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Error creating booking", err)
	}

	if err := s.validator.ValidateCreate(req); err != nil {
		log.Warn("Booking validation failed", "user_id", userID, "error", err)
		return nil, validationError(err)
	}

	now := s.now()
	plan, err := payment.NewPlan(req.PackageDetails.Price, int(req.PaymentDetails.PaymentType), req.PaymentDetails.PaymentMethod, now)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	var booking *model.Booking
	var invoice *model.Invoice
	err = s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		// Rebuilt on every attempt so a retried transaction allocates fresh numbers.
		booking = newBooking(user.ID, req, plan, now)
		if err := s.repo.Create(ctx, booking); err != nil {
			return err
		}

		invoice = &model.Invoice{
			BookingID:         booking.ID,
			PaymentType:       model.InvoiceInitial,
			PaymentMethod:     plan.PaymentMethod,
			PayablePrice:      plan.PayablePrice,
			PaidAmount:        plan.PaidAmount,
			DueAmount:         plan.DueAmount,
			PaymentDate:       now,
			PaymentStatus:     model.PaymentCompleted,
			RazorpayOrderID:   req.PaymentDetails.RazorpayOrderID,
			RazorpayPaymentID: req.PaymentDetails.RazorpayPaymentID,
		}
		if err := s.invoices.Create(ctx, invoice); err != nil {
			return err
		}
		if err := s.repo.AddInvoice(ctx, booking.ID, invoice.ID); err != nil {
			return err
		}
		booking.Invoices = []string{invoice.ID}
		return nil
	})
	if err != nil {
		log.Error("Failed to create booking", "user_id", userID, "error", err)
		return nil, s.mapError(err, "Error creating booking")
	}

	log.Info("Booking created",
		"booking_id", booking.ID,
		"booking_no", booking.BookingNo,
		"invoice_no", invoice.InvoiceNo,
		"paid", plan.PaidAmount,
		"due", plan.DueAmount,
	)

	ev := bookingEvent(events.BookingCreated, booking, user, now)
	ev.InvoiceNo = invoice.InvoiceNo
	s.publish(ctx, ev)

	return booking, nil
}

// List scopes bookings to the caller: everything for admins, their own for
// clients and the assigned ones for service providers. Anonymous callers get
// an empty list.
func (s *bookingService) List(ctx context.Context, viewer *auth.UserClaims) ([]*model.BookingView, error) {
	if viewer == nil {
		return []*model.BookingView{}, nil
	}

	var bookings []*model.Booking
	var err error
	switch viewer.Role {
	case model.RoleAdmin:
		bookings, err = s.repo.FindAll(ctx)
	case model.RoleClient:
		bookings, err = s.repo.FindByUser(ctx, viewer.UserID)
	case model.RoleServiceProvider:
		partner, perr := s.partners.FindByOwner(ctx, viewer.UserID)
		if perr != nil {
			if errors.Is(perr, partnerserrors.ErrNotFound) {
				return []*model.BookingView{}, nil
			}
			return nil, s.mapError(perr, "Error fetching bookings")
		}
		bookings, err = s.repo.FindByPartner(ctx, partner.ID)
	default:
		return []*model.BookingView{}, nil
	}
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to list bookings", "role", viewer.Role, "user_id", viewer.UserID, "error", err)
		return nil, apperrors.Internal("Error fetching bookings", err)
	}

	views, err := s.populate(ctx, bookings)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to populate bookings", "error", err)
		return nil, apperrors.Internal("Error fetching bookings", err)
	}
	return views, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.BookingView, error) {
	if !validation.IsObjectID(id) {
		return nil, apperrors.InvalidInput("Invalid Booking ID format")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "Error fetching booking")
	}

	views, err := s.populate(ctx, []*model.Booking{booking})
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to populate booking", "id", id, "error", err)
		return nil, apperrors.Internal("Error fetching booking", err)
	}
	return views[0], nil
}

func (s *bookingService) GetByUserID(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID is required")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to fetch user bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Error fetching user bookings", err)
	}
	if len(bookings) == 0 {
		return nil, apperrors.NotFoundMessage("No bookings found for this user")
	}
	return bookings, nil
}

func (s *bookingService) GetInvoices(ctx context.Context, id string) ([]*model.Invoice, error) {
	if !validation.IsObjectID(id) {
		return nil, apperrors.InvalidInput("Invalid Booking ID format")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, s.mapError(err, "Error fetching invoices")
	}

	invoices, err := s.invoices.FindByBooking(ctx, id)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to fetch invoices", "booking_id", id, "error", err)
		return nil, apperrors.Internal("Error fetching invoices", err)
	}
	return invoices, nil
}

// Update applies one of five mutations, chosen by the shape of the request
// body. Every write of a branch, notifications included, commits together.
func (s *bookingService) Update(ctx context.Context, actorID, id string, update *model.BookingUpdate) (*UpdateResult, error) {
	if !validation.IsObjectID(id) {
		return nil, apperrors.InvalidInput("Invalid Booking ID format")
	}

	var apply func(ctx context.Context) (*events.BookingEvent, error)
	var message string

	switch update.Kind {
	case model.UpdateOrdered:
		message = MsgOrdered
		apply = func(ctx context.Context) (*events.BookingEvent, error) {
			return s.applyOrdered(ctx, actorID, id, update)
		}
	case model.UpdatePayment:
		message = MsgPayment
		apply = func(ctx context.Context) (*events.BookingEvent, error) {
			return s.applyPayment(ctx, actorID, id, update.Payment)
		}
	case model.UpdateStatus:
		if err := s.validator.ValidateStatus(update.Status); err != nil {
			return nil, validationError(err)
		}
		message = MsgStatus
		apply = func(ctx context.Context) (*events.BookingEvent, error) {
			return s.applyStatus(ctx, actorID, id, update.Status)
		}
	case model.UpdateAssignment:
		if !validation.IsObjectID(update.ServicePartner) {
			return nil, apperrors.InvalidInput("Invalid Service Provider ID format")
		}
		if err := s.validator.ValidateAssignment(update.ServicePartner, update.AssignedStatus); err != nil {
			return nil, validationError(err)
		}
		message = MsgAssignment
		apply = func(ctx context.Context) (*events.BookingEvent, error) {
			return s.applyAssignment(ctx, actorID, id, update.ServicePartner, update.AssignedStatus)
		}
	default:
		if update.Status != "" {
			if err := s.validator.ValidateStatus(update.Status); err != nil {
				return nil, validationError(err)
			}
		}
		if err := s.validator.ValidateAssignmentFields(update.ServicePartner, update.AssignedStatus); err != nil {
			return nil, validationError(err)
		}
		message = MsgUpdated
		apply = func(ctx context.Context) (*events.BookingEvent, error) {
			return s.applyFull(ctx, id, update)
		}
	}

	var ev *events.BookingEvent
	err := s.repo.ExecuteTransaction(ctx, func(ctx context.Context) error {
		var err error
		ev, err = apply(ctx)
		return err
	})
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to update booking",
			"id", id,
			"kind", update.Kind.String(),
			"error", err,
		)
		return nil, s.mapError(err, "Error updating booking")
	}

	s.cfg.Log.WithContext(ctx).Info("Booking updated", "id", id, "kind", update.Kind.String())
	if ev != nil {
		s.publish(ctx, *ev)
	}

	view, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Message: message, Booking: view}, nil
}

// applyOrdered marks the booking ordered and, for installment plans, settles
// the outstanding balance with a final invoice.
func (s *bookingService) applyOrdered(ctx context.Context, actorID, id string, update *model.BookingUpdate) (*events.BookingEvent, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	booking.Ordered = update.Ordered

	var invoiceNo string
	if settlement, ok := payment.FinalSettlement(booking.PaymentDetails); ok {
		inv := s.followUpInvoice(booking.ID, model.InvoiceFinalSettlement, settlement, update.Payment, now)
		if err := s.invoices.Create(ctx, inv); err != nil {
			return nil, err
		}
		booking.Invoices = append(booking.Invoices, inv.ID)
		payment.Settle(booking.PaymentDetails)
		invoiceNo = inv.InvoiceNo
	}

	if err := s.repo.Replace(ctx, booking); err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyAdmins(ctx, notificationsservice.Message{
		Title:        fmt.Sprintf("New Order for %s", booking.BookingNo),
		Message:      fmt.Sprintf("Client has placed an order for booking %s", booking.BookingNo),
		RedirectPath: adminPath(id),
		Sender:       actorID,
	}); err != nil {
		return nil, err
	}

	ev := bookingEvent(events.BookingOrdered, booking, nil, now)
	ev.InvoiceNo = invoiceNo
	return &ev, nil
}

// applyPayment records a balance payment. The invoice uses the fixed
// second-installment split; the booking's payment details take whatever the
// client sent on top of what is stored.
func (s *bookingService) applyPayment(ctx context.Context, actorID, id string, patch *model.PaymentPatch) (*events.BookingEvent, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.PaymentDetails == nil {
		return nil, apperrors.InvalidInput("Booking has no payment details")
	}

	now := s.now()
	settlement := payment.SecondInstallment(booking.PaymentDetails.PayablePrice)
	inv := s.followUpInvoice(booking.ID, model.InvoiceSecondInstallment, settlement, patch, now)
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	booking.Invoices = append(booking.Invoices, inv.ID)
	mergePayment(booking.PaymentDetails, patch)
	if err := s.repo.Replace(ctx, booking); err != nil {
		return nil, err
	}

	amount := formatAmount(inv.PaidAmount)
	if err := s.notifier.Push(ctx, booking.UserID, notificationsservice.Message{
		Title:        "Payment Successful",
		Message:      fmt.Sprintf("Your balance payment of ₹%s has been received successfully", amount),
		RedirectPath: clientPath(id),
		Sender:       actorID,
	}); err != nil {
		return nil, err
	}
	if err := s.notifier.NotifyAdmins(ctx, notificationsservice.Message{
		Title:        fmt.Sprintf("Booking %s", booking.BookingNo),
		Message:      fmt.Sprintf("The client has successfully paid a balance amount of ₹%s for the booking.", amount),
		RedirectPath: adminPath(id),
		Sender:       actorID,
	}); err != nil {
		return nil, err
	}

	ev := bookingEvent(events.BookingPaymentRecorded, booking, nil, now)
	ev.InvoiceNo = inv.InvoiceNo
	ev.PaidAmount = inv.PaidAmount
	ev.DueAmount = inv.DueAmount
	return &ev, nil
}

func (s *bookingService) applyStatus(ctx context.Context, actorID, id, status string) (*events.BookingEvent, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.table.CheckStatus(current.Status, status); err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.repo.PushStatus(ctx, id, status, now)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Push(ctx, updated.UserID, notificationsservice.Message{
		Title:        "Booking Status Updated",
		Message:      fmt.Sprintf("Your booking status has been updated to %s", status),
		RedirectPath: clientPath(id),
		Sender:       actorID,
	}); err != nil {
		return nil, err
	}

	if updated.ServicePartner != "" {
		owner, err := s.partnerOwner(ctx, updated.ServicePartner)
		if err != nil {
			return nil, err
		}
		if err := s.notifier.Push(ctx, owner, notificationsservice.Message{
			Title:        "Booking Status Updated",
			Message:      fmt.Sprintf("Booking status has been updated to %s", status),
			RedirectPath: partnerPath(id),
			Sender:       actorID,
		}); err != nil {
			return nil, err
		}
	}

	ev := bookingEvent(events.BookingStatusChanged, updated, nil, now)
	return &ev, nil
}

func (s *bookingService) applyAssignment(ctx context.Context, actorID, id, partnerID, assignedStatus string) (*events.BookingEvent, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.table.CheckAssignment(current.AssignedStatus, assignedStatus); err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.repo.PushAssignment(ctx, id, partnerID, assignedStatus, now)
	if err != nil {
		return nil, err
	}

	owner, err := s.partnerOwner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.Push(ctx, owner, notificationsservice.Message{
		Title:        "Booking Requested",
		Message:      "New Booking Request for Booking",
		RedirectPath: partnerPath(id),
		Sender:       actorID,
	}); err != nil {
		return nil, err
	}

	if assignedStatus == model.AssignmentAccepted || assignedStatus == model.AssignmentRejected {
		if err := s.notifier.NotifyAdmins(ctx, notificationsservice.Message{
			Title:        fmt.Sprintf("Booking %s", assignedStatus),
			Message:      fmt.Sprintf("Service partner has %s the booking", strings.ToLower(assignedStatus)),
			RedirectPath: adminPath(id),
			Sender:       actorID,
		}); err != nil {
			return nil, err
		}
	}

	ev := bookingEvent(events.BookingPartnerAssigned, updated, nil, now)
	ev.ServicePartner = partnerID
	return &ev, nil
}

// applyFull overwrites the supplied fields. A status in the body is recorded
// in the history like a status-only update, without notifications.
func (s *bookingService) applyFull(ctx context.Context, id string, update *model.BookingUpdate) (*events.BookingEvent, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	mergeFields(booking, &update.Fields)
	if update.AssignedStatus != "" {
		booking.AssignedStatus = update.AssignedStatus
	}
	if update.ServicePartner != "" {
		booking.ServicePartner = update.ServicePartner
	}

	var ev *events.BookingEvent
	if update.Status != "" {
		if err := s.table.CheckStatus(booking.Status, update.Status); err != nil {
			return nil, err
		}
		booking.Status = update.Status
		booking.StatusHistory = append(booking.StatusHistory, model.StatusEntry{Status: update.Status, UpdatedAt: now})
		e := bookingEvent(events.BookingStatusChanged, booking, nil, now)
		ev = &e
	}

	if err := s.repo.Replace(ctx, booking); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *bookingService) followUpInvoice(bookingID string, paymentType int, settlement payment.Settlement, patch *model.PaymentPatch, now time.Time) *model.Invoice {
	inv := &model.Invoice{
		BookingID:     bookingID,
		PaymentType:   paymentType,
		PaymentMethod: model.DefaultPaymentMethod,
		PayablePrice:  settlement.Payable,
		PaidAmount:    settlement.Paid,
		DueAmount:     settlement.Due,
		PaymentDate:   now,
		PaymentStatus: model.PaymentCompleted,
	}
	if patch != nil {
		if patch.PaymentMethod != "" {
			inv.PaymentMethod = patch.PaymentMethod
		}
		inv.RazorpayOrderID = patch.RazorpayOrderID
		inv.RazorpayPaymentID = patch.RazorpayPaymentID
	}
	return inv
}

// partnerOwner returns the user behind a partner profile, or "" when the
// profile no longer exists.
func (s *bookingService) partnerOwner(ctx context.Context, partnerID string) (string, error) {
	partner, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, partnerserrors.ErrNotFound) || errors.Is(err, partnerserrors.ErrInvalidID) {
			s.cfg.Log.WithContext(ctx).Warn("Service partner missing, skipping notification", "partner_id", partnerID)
			return "", nil
		}
		return "", err
	}
	return partner.Partner, nil
}

// populate resolves user, partner and invoice references with one query per
// collection.
func (s *bookingService) populate(ctx context.Context, bookings []*model.Booking) ([]*model.BookingView, error) {
	views := make([]*model.BookingView, len(bookings))
	if len(bookings) == 0 {
		return views, nil
	}

	var userIDs, partnerIDs, invoiceIDs []string
	for _, b := range bookings {
		userIDs = append(userIDs, b.UserID)
		if b.ServicePartner != "" {
			partnerIDs = append(partnerIDs, b.ServicePartner)
		}
		invoiceIDs = append(invoiceIDs, b.Invoices...)
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	partners, err := s.partners.FindByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.FindByIDs(ctx, invoiceIDs)
	if err != nil {
		return nil, err
	}

	userByID := make(map[string]*model.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}
	partnerByID := make(map[string]*model.ServicePartner, len(partners))
	for _, p := range partners {
		partnerByID[p.ID] = p
	}
	invoiceByID := make(map[string]*model.Invoice, len(invoices))
	for _, inv := range invoices {
		invoiceByID[inv.ID] = inv
	}

	for i, b := range bookings {
		view := &model.BookingView{
			Booking:        b,
			User:           userByID[b.UserID],
			ServicePartner: partnerByID[b.ServicePartner],
			Invoices:       make([]*model.Invoice, 0, len(b.Invoices)),
		}
		for _, id := range b.Invoices {
			if inv, ok := invoiceByID[id]; ok {
				view.Invoices = append(view.Invoices, inv)
			}
		}
		views[i] = view
	}
	return views, nil
}

func (s *bookingService) publish(ctx context.Context, ev events.BookingEvent) {
	if !events.Enabled(s.publisher) {
		return
	}
	if ev.ClientEmail == "" {
		if user, err := s.users.FindByID(ctx, ev.UserID); err == nil {
			ev.ClientEmail = user.Email
			ev.ClientName = user.Fullname
		}
	}
	if err := s.publisher.PublishBooking(ctx, ev); err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Failed to publish booking event",
			"type", ev.Type,
			"booking_id", ev.BookingID,
			"error", err,
		)
	}
}

func (s *bookingService) mapError(err error, fallback string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	var transition *lifecycle.TransitionError
	switch {
	case errors.As(err, &transition):
		return apperrors.Conflict(transition.Error())
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundMessage("Booking not found")
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid Booking ID format")
	case errors.Is(err, userserrors.ErrNotFound):
		return apperrors.NotFoundMessage("User not found")
	default:
		return apperrors.Internal(fallback, err)
	}
}

func newBooking(userID string, req *model.CreateBookingRequest, plan *model.PaymentDetails, now time.Time) *model.Booking {
	details := *plan
	return &model.Booking{
		UserID:                userID,
		BasicInfo:             req.BasicInfo,
		FormDetails:           req.FormDetails,
		EventDetails:          req.EventDetails,
		DeliveryAddress:       req.DeliveryAddress,
		PaymentDetails:        &details,
		PackageDetails:        req.PackageDetails,
		Status:                model.StatusBooked,
		StatusHistory:         []model.StatusEntry{{Status: model.StatusBooked, UpdatedAt: now}},
		AssignedStatusHistory: []model.AssignmentEntry{},
		Invoices:              []string{},
		AgreeToTerms:          req.AgreeToTerms,
		ConfirmBookingDetails: req.ConfirmBookingDetails,
	}
}

func mergePayment(details *model.PaymentDetails, patch *model.PaymentPatch) {
	if patch == nil {
		return
	}
	if patch.Installment != nil {
		details.Installment = *patch.Installment
	}
	if patch.PayablePrice != nil {
		details.PayablePrice = *patch.PayablePrice
	}
	if patch.PaidAmount != nil {
		details.PaidAmount = *patch.PaidAmount
	}
	if patch.DueAmount != nil {
		details.DueAmount = *patch.DueAmount
	}
	if patch.PaymentMethod != "" {
		details.PaymentMethod = patch.PaymentMethod
	}
	if patch.PaymentType != nil {
		details.PaymentType = *patch.PaymentType
	}
	if patch.PaymentStatus != "" {
		details.PaymentStatus = patch.PaymentStatus
	}
}

func mergeFields(b *model.Booking, f *model.BookingFields) {
	if f.BasicInfo != nil {
		b.BasicInfo = f.BasicInfo
	}
	if f.FormDetails != nil {
		b.FormDetails = f.FormDetails
	}
	if f.EventDetails != nil {
		b.EventDetails = f.EventDetails
	}
	if f.DeliveryAddress != nil {
		b.DeliveryAddress = f.DeliveryAddress
	}
	if f.PackageDetails != nil {
		b.PackageDetails = *f.PackageDetails
	}
	if f.AgreeToTerms != nil {
		b.AgreeToTerms = *f.AgreeToTerms
	}
	if f.ConfirmBookingDetails != nil {
		b.ConfirmBookingDetails = *f.ConfirmBookingDetails
	}
}

func bookingEvent(eventType string, b *model.Booking, user *model.User, now time.Time) events.BookingEvent {
	ev := events.BookingEvent{
		Type:           eventType,
		BookingID:      b.ID,
		BookingNo:      b.BookingNo,
		UserID:         b.UserID,
		Status:         b.Status,
		AssignedStatus: b.AssignedStatus,
		ServicePartner: b.ServicePartner,
		OccurredAt:     now,
	}
	if b.PaymentDetails != nil {
		ev.PaidAmount = b.PaymentDetails.PaidAmount
		ev.DueAmount = b.PaymentDetails.DueAmount
	}
	if user != nil {
		ev.ClientEmail = user.Email
		ev.ClientName = user.Fullname
	}
	return ev
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.AppError()
	}
	return apperrors.InvalidInput(err.Error())
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clientPath(id string) string  { return "/client/my-bookings/" + id }
func partnerPath(id string) string { return "/partner/bookings/" + id }
func adminPath(id string) string   { return "/admin/bookings/" + id }
