// Package mongo creates the collections, schema validators and indexes the
// API relies on, and aligns the business-code counters with existing data.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bannerrepository "github.com/jayant413/contrashutter-backend/internal/banners/repository"
	bookingrepository "github.com/jayant413/contrashutter-backend/internal/bookings/repository"
	catalogrepository "github.com/jayant413/contrashutter-backend/internal/catalog/repository"
	formrepository "github.com/jayant413/contrashutter-backend/internal/forms/repository"
	"github.com/jayant413/contrashutter-backend/internal/migrations/mongo/validators"
	notificationrepository "github.com/jayant413/contrashutter-backend/internal/notifications/repository"
	partnerrepository "github.com/jayant413/contrashutter-backend/internal/partners/repository"
	supportrepository "github.com/jayant413/contrashutter-backend/internal/support/repository"
	userrepository "github.com/jayant413/contrashutter-backend/internal/users/repository"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
)

type Collection struct {
	Name      string
	Validator bson.M
	Indexes   []mongo.IndexModel
}

// Counter ties a sequence to the collection field holding its rendered codes.
type Counter struct {
	Name       string
	Collection string
	Field      string
	Prefix     string
}

var Collections = []Collection{
	{
		Name:      userrepository.CollectionName,
		Validator: validators.UserValidator,
		Indexes: []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "email", Value: 1},
					{Key: "role", Value: 1},
					{Key: "contact", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("uniq_email_role_contact"),
			},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
	},
	{
		Name:      bookingrepository.CollectionName,
		Validator: validators.BookingValidator,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "booking_no", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_booking_no"),
			},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "servicePartner", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	},
	{
		Name:      bookingrepository.InvoiceCollectionName,
		Validator: validators.InvoiceValidator,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "invoice_no", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_invoice_no"),
			},
			{Keys: bson.D{{Key: "bookingId", Value: 1}}},
		},
	},
	{
		Name:      partnerrepository.CollectionName,
		Validator: validators.PartnerValidator,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "partner", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_partner"),
			},
		},
	},
	{
		Name:      catalogrepository.ServicesCollection,
		Validator: validators.ServiceValidator,
	},
	{
		Name:      catalogrepository.EventsCollection,
		Validator: validators.EventValidator,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "serviceId", Value: 1}}},
		},
	},
	{
		Name:      catalogrepository.PackagesCollection,
		Validator: validators.PackageValidator,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "eventId", Value: 1}}},
		},
	},
	{
		Name: notificationrepository.CollectionName,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	},
	{
		Name: supportrepository.CollectionName,
		Indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
	},
	{
		Name: bannerrepository.CollectionName,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "index", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_banner_index"),
			},
		},
	},
	{
		Name: formrepository.CollectionName,
		Indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "eventType", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_event_type"),
			},
		},
	},
}

var Counters = []Counter{
	{
		Name:       bookingrepository.BookingCounter,
		Collection: bookingrepository.CollectionName,
		Field:      "booking_no",
		Prefix:     bookingrepository.BookingPrefix,
	},
	{
		Name:       bookingrepository.InvoiceCounter,
		Collection: bookingrepository.InvoiceCollectionName,
		Field:      "invoice_no",
		Prefix:     bookingrepository.InvoicePrefix,
	},
}

type Migrator struct {
	db  *mongo.Database
	log *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{db: db, log: log}
}

func (m *Migrator) Run(ctx context.Context) error {
	m.log.Info("Running Mongo migrations", "database", m.db.Name())
	if err := m.EnsureCollections(ctx); err != nil {
		return err
	}
	if err := m.SeedCounters(ctx); err != nil {
		return err
	}
	m.log.Info("All migrations applied successfully")
	return nil
}

func (m *Migrator) EnsureCollections(ctx context.Context) error {
	for _, c := range Collections {
		if err := m.ensureCollection(ctx, c.Name, c.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", c.Name, err)
		}
		if err := m.ensureIndexes(ctx, c.Name, c.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", c.Name, err)
		}
	}
	return nil
}

// SeedCounters raises every counter to the highest code already stored so
// that documents created before the counters existed are never reissued.
func (m *Migrator) SeedCounters(ctx context.Context) error {
	sequence := mongotx.NewSequence(m.db)
	for _, c := range Counters {
		highest, err := m.maxCode(ctx, c)
		if err != nil {
			return err
		}
		if err := sequence.SeedFromMax(ctx, c.Name, highest); err != nil {
			return err
		}
		m.log.Info("Counter seeded", "counter", c.Name, "value", highest)
	}
	return nil
}

// maxCode scans every code rather than sorting on the field, since legacy
// codes were not always zero padded to the same width.
func (m *Migrator) maxCode(ctx context.Context, c Counter) (int64, error) {
	opts := options.Find().SetProjection(bson.M{c.Field: 1, "_id": 0})
	cursor, err := m.db.Collection(c.Collection).Find(ctx, bson.M{c.Field: bson.M{"$type": "string"}}, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to scan %s.%s: %w", c.Collection, c.Field, err)
	}
	defer cursor.Close(ctx)

	var highest int64
	for cursor.Next(ctx) {
		code, _ := cursor.Current.Lookup(c.Field).StringValueOK()
		n, err := mongotx.ParseCode(c.Prefix, code)
		if err != nil {
			m.log.Warn("Skipping unparseable code", "collection", c.Collection, "code", code, "error", err)
			continue
		}
		highest = max(highest, n)
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan %s.%s: %w", c.Collection, c.Field, err)
	}
	return highest, nil
}

func (m *Migrator) ensureCollection(ctx context.Context, name string, validator bson.M) error {
	existing, err := m.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		m.log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := m.db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}
	m.log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := m.db.RunCommand(ctx, command).Err(); err != nil {
		m.log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func (m *Migrator) ensureIndexes(ctx context.Context, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := m.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	m.log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
