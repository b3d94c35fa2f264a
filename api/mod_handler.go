package api

import (
	"fmt"
	"net/http"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type moderatorHandler struct {
	responder     Responder
	logger        zerolog.Logger
	decoder       requestDecoder
	moderatorRepo *database.ModeratorRepo
	gate          *auth.Gate
}

func newModeratorHandler(moderatorRepo *database.ModeratorRepo, gate *auth.Gate, decoder requestDecoder) moderatorHandler {
	logger := log.With().Str("handlerName", "moderatorHandler").Logger()

	return moderatorHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		decoder:       decoder,
		moderatorRepo: moderatorRepo,
		gate:          gate,
	}
}

// getAllModerators
// @Summary List moderators
// @Tags Moderators
// @Produce json
// @Success 200 {array} models.Moderator
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /mods [get]
func (h moderatorHandler) getAllModerators() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderators, err := h.moderatorRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if moderators == nil {
			moderators = []*models.Moderator{}
		}
		h.responder.WriteJSON(w, moderators)
	}
}

// registerModerator
// @Summary Register moderator
// @Tags Moderators
// @Accept json
// @Produce json
// @Param moderator body registerModeratorRequest true "Credentials"
// @Success 201 {object} RegisterModeratorResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or invalid field"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 409 {object} ErrorResponse "Conflict - Username taken"
// @Router /mods [post]
func (h moderatorHandler) registerModerator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerModeratorRequest
		if err := h.decoder.decode(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		moderator, err := h.gate.RegisterModerator(r.Context(), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, RegisterModeratorResponse{
			ID:       moderator.ID,
			Username: moderator.Username,
			PassHash: moderator.PasswordHash,
		})
	}
}

// deleteModerator deletes a moderator and ends its sessions
// @Summary Delete moderator
// @Tags Moderators
// @Produce json
// @Param moderatorID path int true "Moderator ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Not Found - Moderator not found"
// @Router /mods/{moderatorID} [delete]
func (h moderatorHandler) deleteModerator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moderatorID, err := pathID(r, "moderatorID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		moderator, err := h.moderatorRepo.Delete(r.Context(), moderatorID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.gate.RevokeModerator(r.Context(), moderator.ID); err != nil {
			// the row is gone, so any surviving session fails its next identity check anyway
			h.logger.Error().Err(err).Uint("moderatorId", moderator.ID).Msg("Failed to revoke sessions of deleted moderator")
		}

		h.responder.WriteMessage(w, http.StatusOK, fmt.Sprintf("Moderator %s was deleted.", moderator.Username))
	}
}
