package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func preloadChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Technologies", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("GalleryImages", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

// FindAll returns all projects with their children, ordered by id
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	if err := preloadChildren(r.db.WithContext(ctx)).Order("id").Find(&projects).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "projects", err)
	}
	return projects, nil
}

// FindByID returns a project by its ID with its children
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := preloadChildren(r.db.WithContext(ctx)).First(&project, id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "project", err)
	}
	return &project, nil
}

// LockByID reads the project row with a row-level write lock held until the surrounding
// transaction ends. Children are not loaded.
func (r *ProjectRepo) LockByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&project, id).Error
	if err != nil {
		return nil, errs.NewDatabaseError("lock", "project", err)
	}
	return &project, nil
}

// Add inserts a new project row without its children
func (r *ProjectRepo) Add(ctx context.Context, fields models.ProjectFields) (*models.Project, error) {
	project := models.Project{ProjectFields: fields}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&project).Error; err != nil {
		return nil, errs.NewDatabaseError("create", "project", err)
	}
	return &project, nil
}

// UpdateFields overwrites every scalar column, including zero values
func (r *ProjectRepo) UpdateFields(ctx context.Context, id uint, fields models.ProjectFields) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{ID: id}).
		Select(models.ProjectUpdatableColumns).
		Updates(&models.Project{ProjectFields: fields})
	if result.Error != nil {
		return errs.NewDatabaseError("update", "project", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

// Delete removes a project and every child row referencing it. Run it inside a transaction
// so children and parent disappear together.
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("project_id = ?", id).Delete(&models.Technology{}).Error; err != nil {
		return errs.NewDatabaseError("delete", "technologies", err)
	}
	if err := db.Where("project_id = ?", id).Delete(&models.GalleryImage{}).Error; err != nil {
		return errs.NewDatabaseError("delete", "gallery images", err)
	}

	result := db.Delete(&models.Project{}, id)
	if result.Error != nil {
		return errs.NewDatabaseError("delete", "project", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}
