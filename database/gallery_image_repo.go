package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/reconcile"
	"gorm.io/gorm"
)

type GalleryImageRepo struct {
	db *gorm.DB
}

func NewGalleryImageRepo(db *gorm.DB) *GalleryImageRepo {
	return &GalleryImageRepo{db}
}

// FindByProject returns the images of a project ordered by id
func (r *GalleryImageRepo) FindByProject(ctx context.Context, projectID uint) ([]models.GalleryImage, error) {
	var images []models.GalleryImage
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&images).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "gallery images", err)
	}
	return images, nil
}

// IDsForProject returns the ids of a project's images
func (r *GalleryImageRepo) IDsForProject(ctx context.Context, projectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.GalleryImage{}).
		Where("project_id = ?", projectID).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "gallery images", err)
	}
	return ids, nil
}

// ForProject scopes child mutations to one project
func (r *GalleryImageRepo) ForProject(projectID uint) reconcile.Store[models.GalleryImageFields] {
	return galleryImageStore{db: r.db, projectID: projectID}
}

type galleryImageStore struct {
	db        *gorm.DB
	projectID uint
}

func (s galleryImageStore) Create(ctx context.Context, fields models.GalleryImageFields) (uint, error) {
	image := models.GalleryImage{ProjectID: s.projectID, GalleryImageFields: fields}
	if err := s.db.WithContext(ctx).Create(&image).Error; err != nil {
		return 0, errs.NewDatabaseError("create", "gallery image", err)
	}
	return image.ID, nil
}

func (s galleryImageStore) Update(ctx context.Context, id uint, fields models.GalleryImageFields) error {
	db := s.db.WithContext(ctx)

	var existing models.GalleryImage
	if err := db.Where("id = ? AND project_id = ?", id, s.projectID).First(&existing).Error; err != nil {
		return errs.NewDatabaseError("find", "gallery image", err)
	}

	err := db.Model(&existing).
		Select(models.GalleryImageUpdatableColumns).
		Updates(&models.GalleryImage{GalleryImageFields: fields}).Error
	if err != nil {
		return errs.NewDatabaseError("update", "gallery image", err)
	}
	return nil
}

func (s galleryImageStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", id, s.projectID).
		Delete(&models.GalleryImage{})
	if result.Error != nil {
		return errs.NewDatabaseError("delete", "gallery image", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("gallery image")
	}
	return nil
}
