package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bannerserrors "github.com/jayant413/contrashutter-backend/internal/banners/errors"
	"github.com/jayant413/contrashutter-backend/internal/banners/repository"
	"github.com/jayant413/contrashutter-backend/pkg/blob"
	"github.com/jayant413/contrashutter-backend/pkg/config"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

const ImageFolder = "banners"

type ImageStore interface {
	StoreAs(ctx context.Context, folder, name string, up blob.Upload) (string, error)
	Delete(ctx context.Context, ref string) error
}

type BannerService interface {
	Upload(ctx context.Context, files []blob.Upload, indexes []int) ([]*model.Banner, error)
	List(ctx context.Context) ([]*model.Banner, error)
	Delete(ctx context.Context, id string) error
}

type bannerService struct {
	repo   repository.BannerRepository
	images ImageStore
	cfg    *config.Config
	now    func() time.Time
}

func NewBannerService(repo repository.BannerRepository, images ImageStore, cfg *config.Config) BannerService {
	return &bannerService{
		repo:   repo,
		images: images,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Upload pairs files[i] with indexes[i] and upserts each slot. Images that a
// slot previously held are removed once the new one is recorded.
func (s *bannerService) Upload(ctx context.Context, files []blob.Upload, indexes []int) ([]*model.Banner, error) {
	log := s.cfg.Log.WithContext(ctx)

	if len(files) == 0 {
		return nil, apperrors.InvalidInput("No files uploaded")
	}
	if len(indexes) != len(files) {
		return nil, apperrors.InvalidInput("Invalid or mismatched indexes array")
	}

	stamp := s.now().UnixMilli()
	banners := make([]*model.Banner, 0, len(files))
	for i, file := range files {
		index := indexes[i]
		ref, err := s.images.StoreAs(ctx, ImageFolder, fmt.Sprintf("banner-%d-%d", stamp, index), file)
		if err != nil {
			log.Warn("Rejected banner image", "index", index, "error", err)
			return nil, blob.AppError(err)
		}

		banner, replaced, err := s.repo.Upsert(ctx, index, ref)
		if err != nil {
			s.dropImage(ctx, ref)
			log.Error("Error uploading banners", "index", index, "error", err)
			return nil, apperrors.Internal("Error uploading banners", err)
		}
		if replaced != "" && replaced != ref {
			s.dropImage(ctx, replaced)
		}
		banners = append(banners, banner)
	}

	log.Info("Banners uploaded", "count", len(banners))
	return banners, nil
}

func (s *bannerService) List(ctx context.Context) ([]*model.Banner, error) {
	banners, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.WithContext(ctx).Error("Error fetching banners", "error", err)
		return nil, apperrors.Internal("Error fetching banners", err)
	}
	return banners, nil
}

func (s *bannerService) Delete(ctx context.Context, id string) error {
	banner, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, bannerserrors.ErrNotFound) || errors.Is(err, bannerserrors.ErrInvalidID) {
			return apperrors.NotFoundMessage("Banner not found")
		}
		s.cfg.Log.WithContext(ctx).Error("Error deleting banner", "banner_id", id, "error", err)
		return apperrors.Internal("Error deleting banner", err)
	}
	s.dropImage(ctx, banner.Image)

	s.cfg.Log.WithContext(ctx).Info("Banner deleted", "banner_id", id, "index", banner.Index)
	return nil
}

func (s *bannerService) dropImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		s.cfg.Log.WithContext(ctx).Warn("Failed to delete banner image", "path", ref, "error", err)
	}
}
