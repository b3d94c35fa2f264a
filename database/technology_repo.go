package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/reconcile"
	"gorm.io/gorm"
)

type TechnologyRepo struct {
	db *gorm.DB
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{db}
}

// FindByProject returns the technologies of a project ordered by id
func (r *TechnologyRepo) FindByProject(ctx context.Context, projectID uint) ([]models.Technology, error) {
	var technologies []models.Technology
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&technologies).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "technologies", err)
	}
	return technologies, nil
}

// IDsForProject returns the ids of a project's technologies
func (r *TechnologyRepo) IDsForProject(ctx context.Context, projectID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Technology{}).
		Where("project_id = ?", projectID).Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, errs.NewDatabaseError("find", "technologies", err)
	}
	return ids, nil
}

// ForProject scopes child mutations to one project
func (r *TechnologyRepo) ForProject(projectID uint) reconcile.Store[models.TechnologyFields] {
	return technologyStore{db: r.db, projectID: projectID}
}

type technologyStore struct {
	db        *gorm.DB
	projectID uint
}

func (s technologyStore) Create(ctx context.Context, fields models.TechnologyFields) (uint, error) {
	technology := models.Technology{ProjectID: s.projectID, TechnologyFields: fields}
	if err := s.db.WithContext(ctx).Create(&technology).Error; err != nil {
		return 0, errs.NewDatabaseError("create", "technology", err)
	}
	return technology.ID, nil
}

func (s technologyStore) Update(ctx context.Context, id uint, fields models.TechnologyFields) error {
	db := s.db.WithContext(ctx)

	var existing models.Technology
	if err := db.Where("id = ? AND project_id = ?", id, s.projectID).First(&existing).Error; err != nil {
		return errs.NewDatabaseError("find", "technology", err)
	}

	err := db.Model(&existing).
		Select(models.TechnologyUpdatableColumns).
		Updates(&models.Technology{TechnologyFields: fields}).Error
	if err != nil {
		return errs.NewDatabaseError("update", "technology", err)
	}
	return nil
}

func (s technologyStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", id, s.projectID).
		Delete(&models.Technology{})
	if result.Error != nil {
		return errs.NewDatabaseError("delete", "technology", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("technology")
	}
	return nil
}
