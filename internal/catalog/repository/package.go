package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const PackagesCollection = "packages"

type PackageRepository interface {
	Create(ctx context.Context, p *model.Package) error
	FindAll(ctx context.Context) ([]*model.Package, error)
	FindByID(ctx context.Context, id string) (*model.Package, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error)
	FindByEvent(ctx context.Context, eventID string) ([]*model.Package, error)
	// Replace overwrites every field but the id and returns the stored package.
	Replace(ctx context.Context, id string, p *model.Package) (*model.Package, error)
}

type mongoPackageRepository struct {
	collection[model.Package]
}

func NewMongoPackageRepository(cfg *config.Config) PackageRepository {
	return &mongoPackageRepository{
		collection: newCollection[model.Package](cfg, PackagesCollection, "package", catalogerrors.ErrPackageNotFound),
	}
}

func (r *mongoPackageRepository) Create(ctx context.Context, p *model.Package) error {
	id, err := r.insert(ctx, p)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *mongoPackageRepository) FindAll(ctx context.Context) ([]*model.Package, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoPackageRepository) FindByID(ctx context.Context, id string) (*model.Package, error) {
	return r.findByID(ctx, id)
}

func (r *mongoPackageRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error) {
	return r.findByIDs(ctx, ids)
}

func (r *mongoPackageRepository) FindByEvent(ctx context.Context, eventID string) ([]*model.Package, error) {
	return r.find(ctx, bson.M{"eventId": eventID})
}

func (r *mongoPackageRepository) Replace(ctx context.Context, id string, p *model.Package) (*model.Package, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc := *p
	doc.ID = ""
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var stored model.Package
	if err := r.coll.FindOneAndReplace(ctx, bson.M{"_id": oid}, &doc, opts).Decode(&stored); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", catalogerrors.ErrPackageNotFound, id)
		}
		return nil, fmt.Errorf("failed to replace package: %w", err)
	}
	return &stored, nil
}
