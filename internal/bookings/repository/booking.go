package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingserrors "github.com/jayant413/contrashutter-backend/internal/bookings/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const (
	CollectionName = "bookings"

	BookingCounter = "bookings"
	BookingPrefix  = "CS"
	BookingWidth   = 5
)

type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context) ([]*model.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	FindByPartner(ctx context.Context, partnerID string) ([]*model.Booking, error)

	PushStatus(ctx context.Context, id, status string, at time.Time) (*model.Booking, error)
	PushAssignment(ctx context.Context, id, partnerID, assignedStatus string, at time.Time) (*model.Booking, error)
	AddInvoice(ctx context.Context, id, invoiceID string) error
	Replace(ctx context.Context, b *model.Booking) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	sequence   *mongotx.Sequence
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		sequence:   mongotx.NewSequence(db),
		txManager:  mongotx.SelectTransactionManager(cfg.Client.Mongo, cfg.MongoTransactions),
	}
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// Create assigns the next booking number when b has none.
func (r *mongoBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if b.BookingNo == "" {
		code, err := r.sequence.NextCode(ctx, BookingCounter, BookingPrefix, BookingWidth)
		if err != nil {
			return fmt.Errorf("failed to allocate booking number: %w", err)
		}
		b.BookingNo = code
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Invoices == nil {
		b.Invoices = []string{}
	}
	if b.StatusHistory == nil {
		b.StatusHistory = []model.StatusEntry{}
	}
	if b.AssignedStatusHistory == nil {
		b.AssignedStatusHistory = []model.AssignmentEntry{}
	}

	result, err := r.collection.InsertOne(ctx, b)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var b model.Booking
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &b, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoBookingRepository) FindByPartner(ctx context.Context, partnerID string) ([]*model.Booking, error) {
	return r.find(ctx, bson.M{"servicePartner": partnerID})
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// PushStatus sets the fulfillment status and appends it to the history. Repeating
// the current status still appends an entry.
func (r *mongoBookingRepository) PushStatus(ctx context.Context, id, status string, at time.Time) (*model.Booking, error) {
	update := bson.M{
		"$set": bson.M{"status": status, "updatedAt": at},
		"$push": bson.M{
			"statusHistory": model.StatusEntry{Status: status, UpdatedAt: at},
		},
	}
	return r.findOneAndUpdate(ctx, id, update)
}

// PushAssignment records an assignment change at the front of the history.
// A rejection clears the partner reference but keeps the entry.
func (r *mongoBookingRepository) PushAssignment(ctx context.Context, id, partnerID, assignedStatus string, at time.Time) (*model.Booking, error) {
	set := bson.M{"assignedStatus": assignedStatus, "updatedAt": at}
	update := bson.M{
		"$push": bson.M{
			"assignedStatusHistory": bson.M{
				"$each": []model.AssignmentEntry{{
					Status:         assignedStatus,
					UpdatedAt:      at,
					ServicePartner: partnerID,
				}},
				"$position": 0,
			},
		},
	}
	if assignedStatus == model.AssignmentRejected {
		update["$unset"] = bson.M{"servicePartner": ""}
	} else {
		set["servicePartner"] = partnerID
	}
	update["$set"] = set
	return r.findOneAndUpdate(ctx, id, update)
}

func (r *mongoBookingRepository) AddInvoice(ctx context.Context, id, invoiceID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$push": bson.M{"invoices": invoiceID},
			"$set":  bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to attach invoice: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
	}
	return nil
}

// Replace writes b over the stored document with the same id.
func (r *mongoBookingRepository) Replace(ctx context.Context, b *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, b.ID)
	}

	b.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc := *b
	doc.ID = ""

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": objectID}, &doc)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, b.ID)
	}
	return nil
}

func (r *mongoBookingRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b model.Booking
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bookingserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &b, nil
}
