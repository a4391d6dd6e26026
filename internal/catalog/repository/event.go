package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const EventsCollection = "events"

type EventRepository interface {
	Create(ctx context.Context, e *model.Event) error
	FindAll(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Event, error)
	FindByService(ctx context.Context, serviceID string) ([]*model.Event, error)
	// Update writes the non-empty fields of update, and image when set.
	Update(ctx context.Context, id string, update *model.EventUpdate, image string) error
	AddPackage(ctx context.Context, id, packageID string) error
	SetForm(ctx context.Context, id, formID string) error
}

type mongoEventRepository struct {
	collection[model.Event]
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	return &mongoEventRepository{
		collection: newCollection[model.Event](cfg, EventsCollection, "event", catalogerrors.ErrEventNotFound),
	}
}

func (r *mongoEventRepository) Create(ctx context.Context, e *model.Event) error {
	if e.PackageIDs == nil {
		e.PackageIDs = []string{}
	}
	id, err := r.insert(ctx, e)
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

func (r *mongoEventRepository) FindAll(ctx context.Context) ([]*model.Event, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	return r.findByID(ctx, id)
}

func (r *mongoEventRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Event, error) {
	return r.findByIDs(ctx, ids)
}

func (r *mongoEventRepository) FindByService(ctx context.Context, serviceID string) ([]*model.Event, error) {
	return r.find(ctx, bson.M{"serviceId": serviceID})
}

func (r *mongoEventRepository) Update(ctx context.Context, id string, update *model.EventUpdate, image string) error {
	set := bson.M{}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.EventName != "" {
		set["eventName"] = update.EventName
	}
	if update.ServiceID != "" {
		set["serviceId"] = update.ServiceID
	}
	if image != "" {
		set["image"] = image
	}
	if len(set) == 0 {
		_, err := r.findByID(ctx, id)
		return err
	}
	return r.updateByID(ctx, id, bson.M{"$set": set})
}

func (r *mongoEventRepository) AddPackage(ctx context.Context, id, packageID string) error {
	return r.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"packageIds": packageID}})
}

func (r *mongoEventRepository) SetForm(ctx context.Context, id, formID string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"formId": formID}})
}
