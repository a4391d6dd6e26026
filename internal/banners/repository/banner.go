package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bannerserrors "github.com/jayant413/contrashutter-backend/internal/banners/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const CollectionName = "banners"

type BannerRepository interface {
	// Upsert stores image at index and returns the new banner together with
	// the image it replaced, if any.
	Upsert(ctx context.Context, index int, image string) (*model.Banner, string, error)
	FindAll(ctx context.Context) ([]*model.Banner, error)
	Delete(ctx context.Context, id string) (*model.Banner, error)
}

type mongoBannerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBannerRepository(cfg *config.Config) BannerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBannerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBannerRepository) Upsert(ctx context.Context, index int, image string) (*model.Banner, string, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)
	var previous model.Banner
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"index": index},
		bson.M{"$set": bson.M{"index": index, "image": image}},
		opts,
	).Decode(&previous)

	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		// fresh insert; look it up to learn the generated id
		var b model.Banner
		if err := r.collection.FindOne(ctx, bson.M{"index": index}).Decode(&b); err != nil {
			return nil, "", fmt.Errorf("failed to read banner %d: %w", index, err)
		}
		return &b, "", nil
	case err != nil:
		return nil, "", fmt.Errorf("failed to upsert banner %d: %w", index, err)
	}

	replaced := previous.Image
	previous.Image = image
	return &previous, replaced, nil
}

func (r *mongoBannerRepository) FindAll(ctx context.Context) ([]*model.Banner, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "index", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query banners: %w", err)
	}
	defer cursor.Close(ctx)

	banners := []*model.Banner{}
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, fmt.Errorf("failed to decode banners: %w", err)
	}
	return banners, nil
}

func (r *mongoBannerRepository) Delete(ctx context.Context, id string) (*model.Banner, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bannerserrors.ErrInvalidID, id)
	}

	var b model.Banner
	if err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", bannerserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to delete banner: %w", err)
	}
	return &b, nil
}
