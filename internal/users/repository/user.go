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

	userserrors "github.com/jayant413/contrashutter-backend/internal/users/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const CollectionName = "users"

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.User, error)
	// FindRegistered matches the exact email, role and contact triple.
	FindRegistered(ctx context.Context, email, role, contact string) (*model.User, error)
	// FindForLogin matches email+role or contact+role.
	FindForLogin(ctx context.Context, email, contact, role string) (*model.User, error)
	FindByRole(ctx context.Context, role string) ([]*model.User, error)
	AdminIDs(ctx context.Context) ([]string, error)
	Exists(ctx context.Context, id string) (bool, error)

	UpdateProfile(ctx context.Context, id string, update *model.ProfileUpdate, profileImage string) (*model.User, error)
	SetPassword(ctx context.Context, id, hash string) error
	SetPartner(ctx context.Context, id, partnerID, status string) error
	SetStatus(ctx context.Context, id, status string) error
	AddToWishlist(ctx context.Context, id, packageID string) error
	RemoveFromWishlist(ctx context.Context, id, packageID string) error
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, u *model.User) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Wishlist == nil {
		u.Wishlist = []string{}
	}

	result, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		if mongotx.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %s", userserrors.ErrDuplicate, u.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID}, id)
}

func (r *mongoUserRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.User, error) {
	objectIDs, err := mongotx.ObjectIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", userserrors.ErrInvalidID, err)
	}
	if len(objectIDs) == 0 {
		return []*model.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, nil)
}

func (r *mongoUserRepository) FindRegistered(ctx context.Context, email, role, contact string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "role": role, "contact": contact}, email)
}

func (r *mongoUserRepository) FindForLogin(ctx context.Context, email, contact, role string) (*model.User, error) {
	or := bson.A{bson.M{"email": email, "role": role}}
	if contact != "" {
		or = append(or, bson.M{"contact": contact, "role": role})
	}
	return r.findOne(ctx, bson.M{"$or": or}, email)
}

func (r *mongoUserRepository) FindByRole(ctx context.Context, role string) ([]*model.User, error) {
	return r.find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

// AdminIDs lists admins oldest first, so the first entry is the default
// receiver of unaddressed notifications.
func (r *mongoUserRepository) AdminIDs(ctx context.Context) ([]string, error) {
	admins, err := r.find(ctx,
		bson.M{"role": model.RoleAdmin},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(admins))
	for i, a := range admins {
		ids[i] = a.ID
	}
	return ids, nil
}

func (r *mongoUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id string, update *model.ProfileUpdate, profileImage string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	set := bson.M{
		"fullname":    update.Fullname,
		"contact":     update.Contact,
		"role":        update.Role,
		"dateOfBirth": update.DateOfBirth,
		"aadharCard":  update.AadharCard,
		"panCard":     update.PanCard,
		"address":     update.Address,
		"updatedAt":   time.Now().UTC().Truncate(time.Millisecond),
	}
	if profileImage != "" {
		set["profileImage"] = profileImage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u model.User
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &u, nil
}

func (r *mongoUserRepository) SetPassword(ctx context.Context, id, hash string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"password": hash}})
}

func (r *mongoUserRepository) SetPartner(ctx context.Context, id, partnerID, status string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"partnerId": partnerID, "status": status}})
}

func (r *mongoUserRepository) SetStatus(ctx context.Context, id, status string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"status": status}})
}

// AddToWishlist appends packageID unless it is already listed.
func (r *mongoUserRepository) AddToWishlist(ctx context.Context, id, packageID string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "wishlist": bson.M{"$ne": packageID}},
		bson.M{"$push": bson.M{"wishlist": packageID}},
	)
	if err != nil {
		return fmt.Errorf("failed to update wishlist: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", userserrors.ErrNotFound, id)
	}
	return fmt.Errorf("%w: %s", userserrors.ErrAlreadyWishlisted, packageID)
}

func (r *mongoUserRepository) RemoveFromWishlist(ctx context.Context, id, packageID string) error {
	return r.updateOne(ctx, id, bson.M{"$pull": bson.M{"wishlist": packageID}})
}

func (r *mongoUserRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", userserrors.ErrInvalidID, id)
	}

	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now().UTC().Truncate(time.Millisecond)
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", userserrors.ErrNotFound, id)
	}
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, ref string) (*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var u model.User
	if err := r.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}

func (r *mongoUserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.User, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if opts == nil {
		opts = options.Find()
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []*model.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}
