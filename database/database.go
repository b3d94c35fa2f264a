package database

import (
	"context"

	"github.com/rpupo63/portfolio-backend/errs"
	"gorm.io/gorm"
)

type Database struct {
	db               *gorm.DB
	moderatorRepo    *ModeratorRepo
	projectRepo      *ProjectRepo
	technologyRepo   *TechnologyRepo
	galleryImageRepo *GalleryImageRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:               db,
		moderatorRepo:    NewModeratorRepo(db),
		projectRepo:      NewProjectRepo(db),
		technologyRepo:   NewTechnologyRepo(db),
		galleryImageRepo: NewGalleryImageRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ModeratorRepo() *ModeratorRepo {
	return d.moderatorRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TechnologyRepo() *TechnologyRepo {
	return d.technologyRepo
}

func (d Database) GalleryImageRepo() *GalleryImageRepo {
	return d.galleryImageRepo
}

// GetDB returns the underlying database connection
func (d Database) GetDB() *gorm.DB {
	return d.db
}

// Transaction runs fn with a Database whose repositories share one transaction.
// fn's error is returned unchanged after rollback; commit failures become transaction errors.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	var fnErr error
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(New(tx))
		return fnErr
	})
	switch {
	case err == nil:
		return nil
	case fnErr != nil:
		return fnErr
	default:
		return errs.NewTransactionFailedError("commit", err)
	}
}

// Ping checks that the database answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
