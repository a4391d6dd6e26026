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

	formserrors "github.com/jayant413/contrashutter-backend/internal/forms/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const CollectionName = "forms"

type FormRepository interface {
	Create(ctx context.Context, f *model.Form) error
	FindByEventType(ctx context.Context, eventType string) (*model.Form, error)
	// Update overwrites the given fields and returns the stored form. An
	// empty title leaves the title unchanged.
	Update(ctx context.Context, id, title string, fields []model.FormField) (*model.Form, error)
}

type mongoFormRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoFormRepository(cfg *config.Config) FormRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFormRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoFormRepository) Create(ctx context.Context, f *model.Form) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	f.CreatedAt = now
	f.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		f.ID = oid.Hex()
	}
	return nil
}

func (r *mongoFormRepository) FindByEventType(ctx context.Context, eventType string) (*model.Form, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var f model.Form
	if err := r.collection.FindOne(ctx, bson.M{"eventType": eventType}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: event %s", formserrors.ErrNotFound, eventType)
		}
		return nil, fmt.Errorf("failed to find form: %w", err)
	}
	return &f, nil
}

func (r *mongoFormRepository) Update(ctx context.Context, id, title string, fields []model.FormField) (*model.Form, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", formserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"fields":    fields,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}
	if title != "" {
		set["formTitle"] = title
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var f model.Form
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", formserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return &f, nil
}
