package api

import (
	"time"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, cookies sessionCookies, decoder requestDecoder, maxCVBytes int64, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler:   newProjectHandler(deps.Projects, decoder),
		moderatorHandler: newModeratorHandler(deps.Database.ModeratorRepo(), deps.Gate, decoder),
		authHandler:      newAuthHandler(deps.Gate, cookies, decoder),
		cvHandler:        newCVHandler(deps.CVUploader, maxCVBytes),
		healthHandler:    newHealthHandler(deps.Database, startupTime),
	}
}
