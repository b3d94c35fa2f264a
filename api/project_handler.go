package api

import (
	"fmt"
	"net/http"

	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	decoder   requestDecoder
	projects  *services.ProjectService
}

func newProjectHandler(projects *services.ProjectService, decoder requestDecoder) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		decoder:   decoder,
		projects:  projects,
	}
}

// withEmptyChildren makes absent child collections serialize as [] rather than null
func withEmptyChildren(p *models.Project) *models.Project {
	if p.Technologies == nil {
		p.Technologies = []models.Technology{}
	}
	if p.GalleryImages == nil {
		p.GalleryImages = []models.GalleryImage{}
	}
	return p
}

// getAllProjects lists every project with its technologies and gallery images
// @Summary Get all projects
// @Description Retrieves all projects ordered by id, each with nested technologies and gallery images
// @Tags Projects
// @Produce json
// @Success 200 {array} models.Project "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.List(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		for _, p := range projects {
			withEmptyChildren(p)
		}
		if projects == nil {
			projects = []*models.Project{}
		}
		h.responder.WriteJSON(w, projects)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.Project "Project with children"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Get(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, withEmptyChildren(project))
	}
}

// createProject creates a project together with its children
// @Summary Create project
// @Description Creates a project, its technologies and its gallery images in one transaction. Child ids must be null.
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body projectRequest true "Project data"
// @Success 201 {object} MessageResponse "Project created"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Conflict - Project name taken"
// @Router /projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if err := h.decoder.decode(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Create(r.Context(), req.toInput())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, MessageResponse{
			Message: fmt.Sprintf("Project %s has been added.", project.Name),
			ID:      project.ID,
		})
	}
}

// updateProject replaces a project and reconciles its children with the submitted ones
// @Summary Update project
// @Description Overwrites the project's fields. Technologies and gallery images are the complete desired collections: entries with an id update that child, entries with a null id are created, stored children not listed are deleted.
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Param project body projectRequest true "Full project"
// @Success 200 {object} MessageResponse "Project updated"
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not Found - Project or referenced child not found"
// @Failure 409 {object} ErrorResponse "Conflict - Project name taken"
// @Router /projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req projectRequest
		if err := h.decoder.decode(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Update(r.Context(), projectID, req.toInput()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, http.StatusOK, fmt.Sprintf("Project %d has been updated.", projectID))
	}
}

// deleteProject deletes a project and all of its children
// @Summary Delete project
// @Tags Projects
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} MessageResponse "Project deleted"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Delete(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, http.StatusOK, fmt.Sprintf("Project %s was deleted successfully.", project.Name))
	}
}
