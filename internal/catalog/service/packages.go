package service

import (
	"context"
	"errors"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
)

// CreatePackage stores the package and appends it to its event's package
// list in one transaction.
func (s *catalogService) CreatePackage(ctx context.Context, pkg *model.Package) (*model.Package, error) {
	pkg.ID = ""
	pkg.Name = sanitizer.TrimAndNormalize(pkg.Name)
	normalizeLines(pkg)
	if err := s.validate(pkg, "Required fields are missing"); err != nil {
		return nil, err
	}

	if _, err := s.services.FindByID(ctx, pkg.ServiceID); err != nil {
		if errors.Is(err, catalogerrors.ErrServiceNotFound) {
			return nil, apperrors.InvalidInput("Service not found")
		}
		return nil, s.mapError(ctx, err, "Error creating package")
	}
	if _, err := s.events.FindByID(ctx, pkg.EventID); err != nil {
		if errors.Is(err, catalogerrors.ErrEventNotFound) {
			return nil, apperrors.InvalidInput("Invalid Event ID")
		}
		return nil, s.mapError(ctx, err, "Error creating package")
	}

	err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		pkg.ID = ""
		if err := s.packages.Create(txCtx, pkg); err != nil {
			return err
		}
		return s.events.AddPackage(txCtx, pkg.EventID, pkg.ID)
	})
	if err != nil {
		return nil, s.mapError(ctx, err, "Error creating package")
	}
	s.invalidate(ctx)

	s.cfg.Log.WithContext(ctx).Info("Package created", "package_id", pkg.ID, "event_id", pkg.EventID)
	return pkg, nil
}

func (s *catalogService) ListPackages(ctx context.Context) ([]*model.PackageView, error) {
	return cached(ctx, s, "packages", func() ([]*model.PackageView, error) {
		packages, err := s.packages.FindAll(ctx)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching packages")
		}
		return s.populatePackages(ctx, packages)
	})
}

func (s *catalogService) GetPackage(ctx context.Context, id string) (*model.PackageView, error) {
	return cached(ctx, s, "package:"+id, func() (*model.PackageView, error) {
		pkg, err := s.packages.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, catalogerrors.ErrInvalidID) {
				return nil, apperrors.NotFoundMessage("Package not found")
			}
			return nil, s.mapError(ctx, err, "Error fetching package")
		}
		views, err := s.populatePackages(ctx, []*model.Package{pkg})
		if err != nil {
			return nil, err
		}
		return views[0], nil
	})
}

func (s *catalogService) PackagesByEvent(ctx context.Context, eventID string) ([]*model.PackageView, error) {
	if eventID == "" {
		return nil, apperrors.InvalidInput("Event ID is required")
	}
	views, err := cached(ctx, s, "packages:event:"+eventID, func() ([]*model.PackageView, error) {
		packages, err := s.packages.FindByEvent(ctx, eventID)
		if err != nil {
			return nil, s.mapError(ctx, err, "Error fetching package")
		}
		return s.populatePackages(ctx, packages)
	})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, apperrors.NotFoundMessage("No packages found for this Event ID")
	}
	return views, nil
}

// UpdatePackage replaces the whole package. The booking price is mandatory
// here even though a new package may start at zero.
func (s *catalogService) UpdatePackage(ctx context.Context, id string, pkg *model.Package) (*model.Package, error) {
	pkg.Name = sanitizer.TrimAndNormalize(pkg.Name)
	normalizeLines(pkg)
	if pkg.BookingPrice <= 0 {
		return nil, apperrors.InvalidInput("Required fields are missing")
	}
	if err := s.validate(pkg, "Required fields are missing"); err != nil {
		return nil, err
	}

	stored, err := s.packages.Replace(ctx, id, pkg)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundMessage("Package not found")
		}
		return nil, s.mapError(ctx, err, "Error updating package")
	}
	s.invalidate(ctx)

	s.cfg.Log.WithContext(ctx).Info("Package updated", "package_id", id)
	return stored, nil
}

func (s *catalogService) FindByID(ctx context.Context, id string) (*model.Package, error) {
	return s.packages.FindByID(ctx, id)
}

func (s *catalogService) FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error) {
	return s.packages.FindByIDs(ctx, ids)
}

func (s *catalogService) populatePackages(ctx context.Context, packages []*model.Package) ([]*model.PackageView, error) {
	serviceIDs := make([]string, 0, len(packages))
	eventIDs := make([]string, 0, len(packages))
	for _, p := range packages {
		serviceIDs = append(serviceIDs, p.ServiceID)
		eventIDs = append(eventIDs, p.EventID)
	}

	services, err := s.services.FindByIDs(ctx, sanitizer.UniqueStrings(serviceIDs))
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching packages")
	}
	events, err := s.events.FindByIDs(ctx, sanitizer.UniqueStrings(eventIDs))
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching packages")
	}

	servicesByID := make(map[string]*model.Service, len(services))
	for _, svc := range services {
		servicesByID[svc.ID] = svc
	}
	eventsByID := make(map[string]*model.Event, len(events))
	for _, e := range events {
		eventsByID[e.ID] = e
	}

	views := make([]*model.PackageView, len(packages))
	for i, p := range packages {
		views[i] = &model.PackageView{
			Package:   p,
			ServiceID: servicesByID[p.ServiceID],
			EventID:   eventsByID[p.EventID],
		}
	}
	return views, nil
}

func normalizeLines(pkg *model.Package) {
	if pkg.CardDetails == nil {
		pkg.CardDetails = []model.CardDetail{}
	}
	if pkg.PackageDetails == nil {
		pkg.PackageDetails = []model.DetailBlock{}
	}
	if pkg.BillDetails == nil {
		pkg.BillDetails = []model.BillDetail{}
	}
}
