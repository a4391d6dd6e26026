package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
)

// collection holds the lookups the three catalog collections share.
// notFound is the sentinel reported when a single document is missing.
type collection[T any] struct {
	cfg      *config.Config
	coll     *mongo.Collection
	noun     string
	notFound error
}

func newCollection[T any](cfg *config.Config, name, noun string, notFound error) collection[T] {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return collection[T]{
		cfg:      cfg,
		coll:     db.Collection(name),
		noun:     noun,
		notFound: notFound,
	}
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (c collection[T]) insert(ctx context.Context, doc *T) (string, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, c.cfg.WriteTimeout)
	defer cancel()

	result, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", c.noun, err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

func (c collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, c.cfg.ReadTimeout)
	defer cancel()

	var doc T
	if err := c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", c.notFound, id)
		}
		return nil, fmt.Errorf("failed to find %s: %w", c.noun, err)
	}
	return &doc, nil
}

// findByIDs skips references that are not valid ObjectIDs; stale wishlist
// and package lists should not fail the whole lookup.
func (c collection[T]) findByIDs(ctx context.Context, ids []string) ([]*T, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*T{}, nil
	}
	return c.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (c collection[T]) find(ctx context.Context, filter bson.M) ([]*T, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, c.cfg.ReadTimeout)
	defer cancel()

	cursor, err := c.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query %ss: %w", c.noun, err)
	}
	defer cursor.Close(ctx)

	docs := []*T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %ss: %w", c.noun, err)
	}
	return docs, nil
}

func (c collection[T]) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, c.cfg.WriteTimeout)
	defer cancel()

	result, err := c.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", c.noun, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", c.notFound, id)
	}
	return nil
}
