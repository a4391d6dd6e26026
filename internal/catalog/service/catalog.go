package service

import (
	"context"
	"errors"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	"github.com/jayant413/contrashutter-backend/internal/catalog/repository"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	"github.com/jayant413/contrashutter-backend/pkg/cache"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	mongotx "github.com/jayant413/contrashutter-backend/pkg/db/mongo"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const EventImageFolder = "events"

// Cache is the read-through store for catalog lookups. Every write drops
// the whole catalog keyspace.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type ImageStore interface {
	Store(ctx context.Context, folder string, up blob.Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

type CatalogService interface {
	CreateService(ctx context.Context, name string) (*model.Service, error)
	ListServices(ctx context.Context) ([]*model.ServiceDetail, error)
	GetService(ctx context.Context, id string) (*model.ServiceDetail, error)
	UpdateServices(ctx context.Context, updates []model.ServiceUpdate) error

	CreateEvent(ctx context.Context, event *model.Event, image *blob.Upload) (*model.Event, error)
	ListEvents(ctx context.Context) ([]*model.EventView, error)
	GetEvent(ctx context.Context, id string) (*model.EventDetail, error)
	EventsByService(ctx context.Context, serviceID string) ([]*model.Event, error)
	UpdateEvent(ctx context.Context, id string, update *model.EventUpdate, image *blob.Upload) (*model.Event, error)
	// LinkForm records formID on the event. It joins the caller's transaction
	// and leaves the read cache alone; call InvalidateCache once it commits.
	LinkForm(ctx context.Context, eventID, formID string) error
	InvalidateCache(ctx context.Context)

	CreatePackage(ctx context.Context, pkg *model.Package) (*model.Package, error)
	ListPackages(ctx context.Context) ([]*model.PackageView, error)
	GetPackage(ctx context.Context, id string) (*model.PackageView, error)
	PackagesByEvent(ctx context.Context, eventID string) ([]*model.PackageView, error)
	UpdatePackage(ctx context.Context, id string, pkg *model.Package) (*model.Package, error)

	// FindByID and FindByIDs return raw packages with catalog sentinel errors.
	FindByID(ctx context.Context, id string) (*model.Package, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error)
}

type catalogService struct {
	services  repository.ServiceRepository
	events    repository.EventRepository
	packages  repository.PackageRepository
	txManager mongotx.TransactionManager
	images    ImageStore
	cache     Cache
	validator *validation.Validator
	cfg       *config.Config
}

// NewCatalogService builds the catalog service. A nil cache disables caching.
func NewCatalogService(
	services repository.ServiceRepository,
	events repository.EventRepository,
	packages repository.PackageRepository,
	txManager mongotx.TransactionManager,
	images ImageStore,
	c Cache,
	validator *validation.Validator,
	cfg *config.Config,
) CatalogService {
	if c == nil {
		c = noCache{}
	}
	return &catalogService{
		services:  services,
		events:    events,
		packages:  packages,
		txManager: txManager,
		images:    images,
		cache:     c,
		validator: validator,
		cfg:       cfg,
	}
}

// cached serves key from the cache, falling back to load and storing its
// result. Cache failures only cost a trip to Mongo.
func cached[T any](ctx context.Context, s *catalogService, key string, load func() (T, error)) (T, error) {
	var value T
	err := s.cache.GetJSON(ctx, key, &value)
	if err == nil {
		return value, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.cfg.Log.WithContext(ctx).Warn("Catalog cache read failed", "key", key, "error", err)
	}

	value, err = load()
	if err != nil {
		return value, err
	}
	if err := s.cache.SetJSON(ctx, key, value); err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Catalog cache write failed", "key", key, "error", err)
	}
	return value, nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, ""); err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Catalog cache invalidation failed", "error", err)
	}
}

// replaceImage drops an asset that a newer upload superseded.
func (s *catalogService) replaceImage(ctx context.Context, old, current string) {
	if old == "" || old == current {
		return
	}
	if err := s.images.Delete(ctx, old); err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Failed to delete replaced image", "path", old, "error", err)
	}
}

func (s *catalogService) mapError(ctx context.Context, err error, fallback string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, catalogerrors.ErrServiceNotFound):
		return apperrors.NotFoundMessage("Service not found")
	case errors.Is(err, catalogerrors.ErrEventNotFound):
		return apperrors.NotFoundMessage("Event not found")
	case errors.Is(err, catalogerrors.ErrPackageNotFound):
		return apperrors.NotFoundMessage("Package not found")
	case errors.Is(err, catalogerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid ID format")
	default:
		s.cfg.Log.WithContext(ctx).Error(fallback, "error", err)
		return apperrors.Internal(fallback, err)
	}
}

func (s *catalogService) validate(v any, message string) error {
	if err := s.validator.Struct(v); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			appErr := verrs.AppError()
			appErr.Message = message
			return appErr
		}
		return apperrors.InvalidInput(message)
	}
	return nil
}

type noCache struct{}

func (noCache) GetJSON(context.Context, string, any) error { return cache.ErrMiss }
func (noCache) SetJSON(context.Context, string, any) error { return nil }
func (noCache) DeletePrefix(context.Context, string) error { return nil }
