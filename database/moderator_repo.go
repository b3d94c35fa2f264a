package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
)

type ModeratorRepo struct {
	db *gorm.DB
}

func NewModeratorRepo(db *gorm.DB) *ModeratorRepo {
	return &ModeratorRepo{db}
}

// FindAll returns all moderators ordered by id
func (r *ModeratorRepo) FindAll(ctx context.Context) ([]*models.Moderator, error) {
	var moderators []*models.Moderator
	if err := r.db.WithContext(ctx).Order("id").Find(&moderators).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "moderators", err)
	}
	return moderators, nil
}

// FindByID returns a moderator by its ID
func (r *ModeratorRepo) FindByID(ctx context.Context, id uint) (*models.Moderator, error) {
	var moderator models.Moderator
	if err := r.db.WithContext(ctx).First(&moderator, id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "moderator", err)
	}
	return &moderator, nil
}

// FindByUsername returns the moderator with the given username
func (r *ModeratorRepo) FindByUsername(ctx context.Context, username string) (*models.Moderator, error) {
	var moderator models.Moderator
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&moderator).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "moderator", err)
	}
	return &moderator, nil
}

// Count returns the number of moderators
func (r *ModeratorRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Moderator{}).Count(&count).Error; err != nil {
		return 0, errs.NewDatabaseError("count", "moderators", err)
	}
	return count, nil
}

// Add inserts a new moderator; a taken username surfaces as a conflict
func (r *ModeratorRepo) Add(ctx context.Context, moderator *models.Moderator) error {
	if err := r.db.WithContext(ctx).Create(moderator).Error; err != nil {
		return errs.NewDatabaseError("create", "moderator", err)
	}
	return nil
}

// Delete removes a moderator by id and returns the deleted row
func (r *ModeratorRepo) Delete(ctx context.Context, id uint) (*models.Moderator, error) {
	moderator, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).Delete(&models.Moderator{}, id)
	if result.Error != nil {
		return nil, errs.NewDatabaseError("delete", "moderator", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewNotFound("moderator")
	}
	return moderator, nil
}
