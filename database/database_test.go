package database

import (
	"context"
	"errors"
	"testing"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	db, err := OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db)
}

func seedProject(t *testing.T, d Database, name string) *models.Project {
	t.Helper()
	ctx := context.Background()

	project, err := d.ProjectRepo().Add(ctx, models.ProjectFields{
		Name:        name,
		Description: "desc",
		ImgURI:      "https://img/" + name,
		Active:      true,
	})
	require.NoError(t, err)

	_, err = d.TechnologyRepo().ForProject(project.ID).Create(ctx, models.TechnologyFields{ImgURI: "go.png", Description: "Go"})
	require.NoError(t, err)
	_, err = d.GalleryImageRepo().ForProject(project.ID).Create(ctx, models.GalleryImageFields{ImgURI: "shot.png"})
	require.NoError(t, err)
	return project
}

func TestModeratorRepo(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	repo := d.ModeratorRepo()

	mod := &models.Moderator{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Add(ctx, mod))
	assert.NotZero(t, mod.ID)

	err := repo.Add(ctx, &models.Moderator{Username: "alice", PasswordHash: "other"})
	assert.True(t, errs.IsConflict(err), "expected conflict, got %v", err)

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, mod.ID, found.ID)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.True(t, errs.IsNotFound(err))

	deleted, err := repo.Delete(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", deleted.Username)

	_, err = repo.Delete(ctx, mod.ID)
	assert.True(t, errs.IsNotFound(err))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestProjectRepo_FindByIDLoadsChildren(t *testing.T) {
	d := newTestDatabase(t)
	seeded := seedProject(t, d, "site")

	project, err := d.ProjectRepo().FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "site", project.Name)
	require.Len(t, project.Technologies, 1)
	assert.Equal(t, "Go", project.Technologies[0].Description)
	require.Len(t, project.GalleryImages, 1)
	assert.Equal(t, "shot.png", project.GalleryImages[0].ImgURI)
}

func TestProjectRepo_UpdateFieldsWritesZeroValues(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	seeded := seedProject(t, d, "site")

	fields := seeded.ProjectFields
	fields.Active = false
	fields.Description = ""
	require.NoError(t, d.ProjectRepo().UpdateFields(ctx, seeded.ID, fields))

	project, err := d.ProjectRepo().FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.False(t, project.Active)
	assert.Empty(t, project.Description)
}

func TestProjectRepo_DuplicateName(t *testing.T) {
	d := newTestDatabase(t)
	seedProject(t, d, "site")

	_, err := d.ProjectRepo().Add(context.Background(), models.ProjectFields{Name: "site"})
	assert.True(t, errs.IsConflict(err))
}

func TestProjectRepo_DeleteCascades(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	doomed := seedProject(t, d, "doomed")
	kept := seedProject(t, d, "kept")

	err := d.Transaction(ctx, func(tx Database) error {
		return tx.ProjectRepo().Delete(ctx, doomed.ID)
	})
	require.NoError(t, err)

	_, err = d.ProjectRepo().FindByID(ctx, doomed.ID)
	assert.True(t, errs.IsNotFound(err))

	techs, err := d.TechnologyRepo().FindByProject(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, techs)
	images, err := d.GalleryImageRepo().FindByProject(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, images)

	ids, err := d.TechnologyRepo().IDsForProject(ctx, kept.ID)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	err = d.ProjectRepo().Delete(ctx, doomed.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestChildStore_ScopedToProject(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	first := seedProject(t, d, "first")
	second := seedProject(t, d, "second")

	ids, err := d.TechnologyRepo().IDsForProject(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	foreign := ids[0]

	store := d.TechnologyRepo().ForProject(first.ID)
	err = store.Update(ctx, foreign, models.TechnologyFields{Description: "hijack"})
	assert.True(t, errs.IsNotFound(err))
	err = store.Delete(ctx, foreign)
	assert.True(t, errs.IsNotFound(err))

	images := d.GalleryImageRepo().ForProject(first.ID)
	err = images.Update(ctx, 999, models.GalleryImageFields{ImgURI: "x"})
	assert.True(t, errs.IsNotFound(err))
}

func TestTransaction_RollsBackChildReconcile(t *testing.T) {
	d := newTestDatabase(t)
	ctx := context.Background()
	project := seedProject(t, d, "site")

	before, err := d.TechnologyRepo().IDsForProject(ctx, project.ID)
	require.NoError(t, err)

	ghost := uint(4242)
	err = d.Transaction(ctx, func(tx Database) error {
		stored, err := tx.TechnologyRepo().IDsForProject(ctx, project.ID)
		if err != nil {
			return err
		}
		_, err = reconcile.Reconcile(ctx, tx.TechnologyRepo().ForProject(project.ID), stored,
			[]reconcile.Entry[models.TechnologyFields]{
				{Fields: models.TechnologyFields{Description: "new"}},
				{ID: &ghost, Fields: models.TechnologyFields{Description: "ghost"}},
			})
		return err
	})
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))

	after, err := d.TechnologyRepo().IDsForProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTransaction_ReturnsCallbackError(t *testing.T) {
	d := newTestDatabase(t)
	sentinel := errors.New("boom")

	err := d.Transaction(context.Background(), func(tx Database) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}
