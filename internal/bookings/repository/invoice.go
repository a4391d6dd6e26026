package repository

import (
	"context"
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
	InvoiceCollectionName = "invoices"

	InvoiceCounter = "invoices"
	InvoicePrefix  = "CSIV"
	InvoiceWidth   = 6
)

// InvoiceRepository is append-only: one document per payment event.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) error
	FindByIDs(ctx context.Context, ids []string) ([]*model.Invoice, error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.Invoice, error)
}

type mongoInvoiceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	sequence   *mongotx.Sequence
}

func NewMongoInvoiceRepository(cfg *config.Config) InvoiceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoInvoiceRepository{
		cfg:        cfg,
		collection: db.Collection(InvoiceCollectionName),
		sequence:   mongotx.NewSequence(db),
	}
}

func (r *mongoInvoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if inv.InvoiceNo == "" {
		code, err := r.sequence.NextCode(ctx, InvoiceCounter, InvoicePrefix, InvoiceWidth)
		if err != nil {
			return fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		inv.InvoiceNo = code
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if inv.PaymentDate.IsZero() {
		inv.PaymentDate = now
	}

	result, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		inv.ID = oid.Hex()
	}
	return nil
}

func (r *mongoInvoiceRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Invoice, error) {
	objectIDs, err := mongotx.ObjectIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bookingserrors.ErrInvalidID, err)
	}
	if len(objectIDs) == 0 {
		return []*model.Invoice{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
}

func (r *mongoInvoiceRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.Invoice, error) {
	return r.find(ctx, bson.M{"bookingId": bookingID})
}

func (r *mongoInvoiceRepository) find(ctx context.Context, filter bson.M) ([]*model.Invoice, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "invoice_no", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer cursor.Close(ctx)

	invoices := []*model.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}
