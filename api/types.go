package api

import (
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/reconcile"
	"github.com/rpupo63/portfolio-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler   projectHandler
	moderatorHandler moderatorHandler
	authHandler      authHandler
	cvHandler        cvHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"project not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Missing required field: name"`
}

// MessageResponse is the body of mutating endpoints that return no entity
type MessageResponse struct {
	Message string `json:"message" example:"Project 3 has been updated."`
	ID      uint   `json:"id,omitempty" example:"3"`
}

type technologyRequest struct {
	ID          *uint   `json:"id"`
	ImgURI      *string `json:"imgUri" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

type galleryImageRequest struct {
	ID     *uint   `json:"id"`
	ImgURI *string `json:"imgUri" validate:"required"`
}

// projectRequest is the body of POST /projects and PUT /projects/{id}. Every field except
// demoUrl must be present; technologies and galleryImages are the full desired collections.
type projectRequest struct {
	Name           *string               `json:"name" validate:"required,min=1,max=255"`
	Description    *string               `json:"description" validate:"required"`
	ImgURI         *string               `json:"imgUri" validate:"required"`
	ServerEndpoint *string               `json:"serverEndpoint" validate:"required"`
	GithubURL      *string               `json:"githubUrl" validate:"required"`
	DemoURL        *string               `json:"demoUrl"`
	Active         *bool                 `json:"active" validate:"required"`
	Technologies   []technologyRequest   `json:"technologies" validate:"required,dive"`
	GalleryImages  []galleryImageRequest `json:"galleryImages" validate:"required,dive"`
}

func (p projectRequest) toInput() services.ProjectInput {
	input := services.ProjectInput{
		Fields: models.ProjectFields{
			Name:           *p.Name,
			Description:    *p.Description,
			ImgURI:         *p.ImgURI,
			ServerEndpoint: *p.ServerEndpoint,
			GithubURL:      *p.GithubURL,
			DemoURL:        p.DemoURL,
			Active:         *p.Active,
		},
		Technologies:  make([]reconcile.Entry[models.TechnologyFields], 0, len(p.Technologies)),
		GalleryImages: make([]reconcile.Entry[models.GalleryImageFields], 0, len(p.GalleryImages)),
	}
	for _, t := range p.Technologies {
		input.Technologies = append(input.Technologies, reconcile.Entry[models.TechnologyFields]{
			ID:     t.ID,
			Fields: models.TechnologyFields{ImgURI: *t.ImgURI, Description: *t.Description},
		})
	}
	for _, g := range p.GalleryImages {
		input.GalleryImages = append(input.GalleryImages, reconcile.Entry[models.GalleryImageFields]{
			ID:     g.ID,
			Fields: models.GalleryImageFields{ImgURI: *g.ImgURI},
		})
	}
	return input
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerModeratorRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72"`
}

// RegisterModeratorResponse echoes the stored hash; the plaintext password is never returned
type RegisterModeratorResponse struct {
	ID       uint   `json:"id" example:"2"`
	Username string `json:"username" example:"alice"`
	PassHash string `json:"passHash" example:"$2a$10$..."`
}

type MeResponse struct {
	Message  string `json:"message" example:"Logged in as alice."`
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
}

type CVUploadResponse struct {
	URL string `json:"url" example:"https://cdn.example.com/cv/1b4e28ba.pdf"`
}

type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Database  string `json:"database" example:"ok"`
	StartedAt string `json:"startedAt" example:"2026-01-02T15:04:05Z"`
	Uptime    string `json:"uptime" example:"3h2m1s"`
}
