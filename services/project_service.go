package services

import (
	"context"
	"errors"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/reconcile"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ProjectInput is a full project as submitted by a client: scalar fields plus the desired
// final state of both child collections.
type ProjectInput struct {
	Fields        models.ProjectFields
	Technologies  []reconcile.Entry[models.TechnologyFields]
	GalleryImages []reconcile.Entry[models.GalleryImageFields]
}

// ProjectService applies project aggregate changes. Every mutation runs in one transaction.
type ProjectService struct {
	db     database.Database
	logger zerolog.Logger
}

func NewProjectService(db database.Database) *ProjectService {
	return &ProjectService{
		db:     db,
		logger: log.With().Str("component", "projectService").Logger(),
	}
}

func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.db.ProjectRepo().FindAll(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	return s.db.ProjectRepo().FindByID(ctx, id)
}

// Create inserts the project and all of its children. Children must not carry ids.
func (s *ProjectService) Create(ctx context.Context, input ProjectInput) (*models.Project, error) {
	for _, t := range input.Technologies {
		if t.ID != nil {
			return nil, errs.NewInvalidFieldError("technologies", "id must be null when creating a project")
		}
	}
	for _, g := range input.GalleryImages {
		if g.ID != nil {
			return nil, errs.NewInvalidFieldError("galleryImages", "id must be null when creating a project")
		}
	}

	var (
		project                 *models.Project
		techResult, imageResult reconcile.Result
	)
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		project, err = tx.ProjectRepo().Add(ctx, input.Fields)
		if err != nil {
			return err
		}

		techResult, err = reconcile.Reconcile(ctx, tx.TechnologyRepo().ForProject(project.ID), nil, input.Technologies)
		if err != nil {
			return err
		}
		imageResult, err = reconcile.Reconcile(ctx, tx.GalleryImageRepo().ForProject(project.ID), nil, input.GalleryImages)
		return err
	})
	if err != nil {
		return nil, err
	}

	recordReconcile(techResult, imageResult)
	s.logger.Info().
		Uint("projectId", project.ID).
		Str("name", project.Name).
		Int("technologies", len(techResult.Created)).
		Int("galleryImages", len(imageResult.Created)).
		Msg("Project created")
	return project, nil
}

// Update replaces the project's scalar fields and reconciles both child collections against
// the submitted ones. The project row stays locked until the transaction ends, so concurrent
// updates and deletes of the same project are serialized.
func (s *ProjectService) Update(ctx context.Context, id uint, input ProjectInput) error {
	if err := checkDuplicateIDs(input); err != nil {
		return err
	}

	var techResult, imageResult reconcile.Result
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		if _, err := tx.ProjectRepo().LockByID(ctx, id); err != nil {
			return err
		}

		storedTechIDs, err := tx.TechnologyRepo().IDsForProject(ctx, id)
		if err != nil {
			return err
		}
		techResult, err = reconcile.Reconcile(ctx, tx.TechnologyRepo().ForProject(id), storedTechIDs, input.Technologies)
		if err != nil {
			return err
		}

		storedImageIDs, err := tx.GalleryImageRepo().IDsForProject(ctx, id)
		if err != nil {
			return err
		}
		imageResult, err = reconcile.Reconcile(ctx, tx.GalleryImageRepo().ForProject(id), storedImageIDs, input.GalleryImages)
		if err != nil {
			return err
		}

		return tx.ProjectRepo().UpdateFields(ctx, id, input.Fields)
	})
	if err != nil {
		return err
	}

	recordReconcile(techResult, imageResult)
	s.logger.Info().
		Uint("projectId", id).
		Uints("technologiesDeleted", techResult.Deleted).
		Uints("technologiesCreated", techResult.Created).
		Uints("galleryImagesDeleted", imageResult.Deleted).
		Uints("galleryImagesCreated", imageResult.Created).
		Msg("Project updated")
	return nil
}

// Delete removes the project and its children and returns the removed project.
func (s *ProjectService) Delete(ctx context.Context, id uint) (*models.Project, error) {
	var project *models.Project
	err := s.db.Transaction(ctx, func(tx database.Database) error {
		var err error
		project, err = tx.ProjectRepo().LockByID(ctx, id)
		if err != nil {
			return err
		}
		return tx.ProjectRepo().Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Uint("projectId", id).Str("name", project.Name).Msg("Project deleted")
	return project, nil
}

func checkDuplicateIDs(input ProjectInput) error {
	if _, err := reconcile.Diff(nil, input.Technologies); err != nil {
		return duplicateIDError("technologies", err)
	}
	if _, err := reconcile.Diff(nil, input.GalleryImages); err != nil {
		return duplicateIDError("galleryImages", err)
	}
	return nil
}

func duplicateIDError(field string, err error) error {
	if errors.Is(err, reconcile.ErrDuplicateID) {
		return errs.NewInvalidFieldError(field, err.Error())
	}
	return err
}

func recordReconcile(tech, images reconcile.Result) {
	metrics.RecordReconcile("technologies", len(tech.Deleted), len(tech.Created), len(tech.Updated))
	metrics.RecordReconcile("gallery_images", len(images.Deleted), len(images.Created), len(images.Updated))
}
