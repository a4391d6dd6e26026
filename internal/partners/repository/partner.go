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

	partnerserrors "github.com/jayant413/contrashutter-backend/internal/partners/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const CollectionName = "servicepartners"

type PartnerRepository interface {
	Create(ctx context.Context, p *model.ServicePartner) error
	FindAll(ctx context.Context) ([]*model.ServicePartner, error)
	FindByID(ctx context.Context, id string) (*model.ServicePartner, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.ServicePartner, error)
	// FindByOwner returns the profile whose partner field is userID.
	FindByOwner(ctx context.Context, userID string) (*model.ServicePartner, error)
	Update(ctx context.Context, id string, update *model.PartnerUpdate) (*model.ServicePartner, error)
	Delete(ctx context.Context, id string) error
}

type mongoPartnerRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoPartnerRepository(cfg *config.Config) PartnerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPartnerRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoPartnerRepository) Create(ctx context.Context, p *model.ServicePartner) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	p.CreatedAt = now
	p.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", partnerserrors.ErrDuplicate, p.Partner)
		}
		return fmt.Errorf("failed to create service partner: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

func (r *mongoPartnerRepository) FindAll(ctx context.Context) ([]*model.ServicePartner, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoPartnerRepository) FindByID(ctx context.Context, id string) (*model.ServicePartner, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", partnerserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, id)
}

func (r *mongoPartnerRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.ServicePartner, error) {
	objectIDs, err := mongotx.ObjectIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", partnerserrors.ErrInvalidID, err)
	}
	if len(objectIDs) == 0 {
		return []*model.ServicePartner{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
}

func (r *mongoPartnerRepository) FindByOwner(ctx context.Context, userID string) (*model.ServicePartner, error) {
	return r.findOne(ctx, bson.M{"partner": userID}, userID)
}

// Update sets the non-nil fields of update and returns the stored document.
func (r *mongoPartnerRepository) Update(ctx context.Context, id string, update *model.PartnerUpdate) (*model.ServicePartner, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", partnerserrors.ErrInvalidID, id)
	}

	set, err := toSet(update)
	if err != nil {
		return nil, fmt.Errorf("failed to encode service partner update: %w", err)
	}
	set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p model.ServicePartner
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&p); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, fmt.Errorf("%w: %s", partnerserrors.ErrNotFound, id)
		case mongotx.IsDuplicateKey(err):
			return nil, fmt.Errorf("%w: %s", partnerserrors.ErrDuplicate, id)
		}
		return nil, fmt.Errorf("failed to update service partner: %w", err)
	}
	return &p, nil
}

func (r *mongoPartnerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", partnerserrors.ErrInvalidID, id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete service partner: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", partnerserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoPartnerRepository) findOne(ctx context.Context, filter bson.M, ref string) (*model.ServicePartner, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var p model.ServicePartner
	if err := r.collection.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", partnerserrors.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find service partner: %w", err)
	}
	return &p, nil
}

func (r *mongoPartnerRepository) find(ctx context.Context, filter bson.M) ([]*model.ServicePartner, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query service partners: %w", err)
	}
	defer cursor.Close(ctx)

	partners := []*model.ServicePartner{}
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode service partners: %w", err)
	}
	return partners, nil
}

// toSet turns the update into a $set document. Nil pointers are dropped by
// their omitempty tags.
func toSet(update *model.PartnerUpdate) (bson.M, error) {
	raw, err := bson.Marshal(update)
	if err != nil {
		return nil, err
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	return set, nil
}
