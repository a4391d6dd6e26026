package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const ServicesCollection = "services"

type ServiceRepository interface {
	Create(ctx context.Context, s *model.Service) error
	FindAll(ctx context.Context) ([]*model.Service, error)
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Service, error)
	Rename(ctx context.Context, id, name string) error
	AddEvent(ctx context.Context, id, eventID string) error
}

type mongoServiceRepository struct {
	collection[model.Service]
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	return &mongoServiceRepository{
		collection: newCollection[model.Service](cfg, ServicesCollection, "service", catalogerrors.ErrServiceNotFound),
	}
}

func (r *mongoServiceRepository) Create(ctx context.Context, s *model.Service) error {
	if s.Events == nil {
		s.Events = []string{}
	}
	id, err := r.insert(ctx, s)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *mongoServiceRepository) FindAll(ctx context.Context) ([]*model.Service, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return r.findByID(ctx, id)
}

func (r *mongoServiceRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Service, error) {
	return r.findByIDs(ctx, ids)
}

func (r *mongoServiceRepository) Rename(ctx context.Context, id, name string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"name": name}})
}

func (r *mongoServiceRepository) AddEvent(ctx context.Context, id, eventID string) error {
	return r.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"events": eventID}})
}
