package service

import (
	"context"
	"errors"

	catalogerrors "github.com/jayant413/contrashutter-backend/internal/catalog/errors"
	userserrors "github.com/jayant413/contrashutter-backend/internal/users/errors"
	"github.com/jayant413/contrashutter-backend/internal/users/repository"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
	"github.com/jayant413/contrashutter-backend/pkg/sanitizer"
	"github.com/jayant413/contrashutter-backend/pkg/validation"
)

const (
	ProfileImageFolder = "user"

	// ProfileNotifications is how many notifications a profile carries.
	ProfileNotifications = 80
)

type PackageLookup interface {
	FindByID(ctx context.Context, id string) (*model.Package, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Package, error)
}

type NotificationLister interface {
	List(ctx context.Context, userID string, limit int) ([]*model.Notification, error)
}

type ImageStore interface {
	StoreAs(ctx context.Context, folder, name string, up blob.Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

type UserService interface {
	Profile(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userID string, update *model.ProfileUpdate, image *blob.Upload) (*model.User, error)
	GetPublic(ctx context.Context, id string) (*model.PublicUser, error)
	ServiceProviders(ctx context.Context) ([]*model.User, error)
	AddToWishlist(ctx context.Context, userID, packageID string) error
	RemoveFromWishlist(ctx context.Context, userID, packageID string) error
}

type userService struct {
	repo          repository.UserRepository
	packages      PackageLookup
	notifications NotificationLister
	images        ImageStore
	validator     *validation.Validator
	cfg           *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	packages PackageLookup,
	notifications NotificationLister,
	images ImageStore,
	validator *validation.Validator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:          repo,
		packages:      packages,
		notifications: notifications,
		images:        images,
		validator:     validator,
		cfg:           cfg,
	}
}

// Profile is the caller's own record with the wishlist resolved and the
// newest notifications attached.
func (s *userService) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, s.mapError(ctx, err, "Internal server error")
	}

	wishlist, err := s.packages.FindByIDs(ctx, user.Wishlist)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to load wishlist", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Internal server error", err)
	}

	notifications, err := s.notifications.List(ctx, userID, ProfileNotifications)
	if err != nil {
		return nil, err
	}

	return &model.Profile{
		User:          user,
		Wishlist:      wishlist,
		Notifications: notifications,
	}, nil
}

// UpdateProfile overwrites the editable fields. A new image is stored under
// the user's id and the previous file is removed when its name differs.
func (s *userService) UpdateProfile(ctx context.Context, userID string, update *model.ProfileUpdate, image *blob.Upload) (*model.User, error) {
	log := s.cfg.Log.WithContext(ctx)

	update.Fullname = sanitizer.TrimAndNormalize(update.Fullname)
	update.Contact = sanitizer.NormalizePhone(update.Contact)
	update.Address = sanitizer.TrimAndNormalize(update.Address)

	if err := s.validator.Struct(update); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			appErr := verrs.AppError()
			appErr.Message = "Required fields are missing"
			return nil, appErr
		}
		return nil, apperrors.InvalidInput("Required fields are missing")
	}

	var oldImage, newImage string
	if image != nil {
		current, err := s.repo.FindByID(ctx, userID)
		if err != nil {
			return nil, s.mapError(ctx, err, "Internal server error")
		}
		oldImage = current.ProfileImage

		newImage, err = s.images.StoreAs(ctx, ProfileImageFolder, userID, *image)
		if err != nil {
			log.Warn("Rejected profile image", "user_id", userID, "error", err)
			return nil, blob.AppError(err)
		}
	}

	user, err := s.repo.UpdateProfile(ctx, userID, update, newImage)
	if err != nil {
		return nil, s.mapError(ctx, err, "Internal server error")
	}

	if oldImage != "" && oldImage != newImage {
		if err := s.images.Delete(ctx, oldImage); err != nil {
			log.Warn("Failed to delete old profile image", "user_id", userID, "path", oldImage, "error", err)
		}
	}

	log.Info("Profile updated", "user_id", userID, "image_replaced", newImage != "")
	return user, nil
}

func (s *userService) GetPublic(ctx context.Context, id string) (*model.PublicUser, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID is required")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError(ctx, err, "Error fetching user")
	}
	return &model.PublicUser{ID: user.ID, Fullname: user.Fullname}, nil
}

func (s *userService) ServiceProviders(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.FindByRole(ctx, model.RoleServiceProvider)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Failed to list service providers", "error", err)
		return nil, apperrors.Internal("Error fetching service providers", err)
	}
	return users, nil
}

func (s *userService) AddToWishlist(ctx context.Context, userID, packageID string) error {
	if !validation.IsObjectID(packageID) {
		return apperrors.NotFoundMessage("Package not found")
	}
	if _, err := s.packages.FindByID(ctx, packageID); err != nil {
		if errors.Is(err, catalogerrors.ErrPackageNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.NotFoundMessage("Package not found")
		}
		s.cfg.Log.WithContext(ctx).Error("Failed to load package", "package_id", packageID, "error", err)
		return apperrors.Internal("Error adding wishlist", err)
	}

	if err := s.repo.AddToWishlist(ctx, userID, packageID); err != nil {
		if errors.Is(err, userserrors.ErrAlreadyWishlisted) {
			return apperrors.InvalidInput("Package already in wishlist")
		}
		return s.mapError(ctx, err, "Error adding wishlist")
	}
	return nil
}

// RemoveFromWishlist succeeds even when packageID was never listed.
func (s *userService) RemoveFromWishlist(ctx context.Context, userID, packageID string) error {
	if err := s.repo.RemoveFromWishlist(ctx, userID, packageID); err != nil {
		return s.mapError(ctx, err, "Error removing wishlist")
	}
	return nil
}

func (s *userService) mapError(ctx context.Context, err error, fallback string) error {
	switch {
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, userserrors.ErrNotFound), errors.Is(err, userserrors.ErrInvalidID):
		return apperrors.NotFoundMessage("User not found")
	default:
		s.cfg.Log.WithContext(ctx).Error(fallback, "error", err)
		return apperrors.Internal(fallback, err)
	}
}
