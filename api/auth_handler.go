package api

import (
	"fmt"
	"net/http"

	"github.com/rpupo63/portfolio-backend/auth"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	decoder   requestDecoder
	gate      *auth.Gate
	cookies   sessionCookies
}

func newAuthHandler(gate *auth.Gate, cookies sessionCookies, decoder requestDecoder) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		decoder:   decoder,
		gate:      gate,
		cookies:   cookies,
	}
}

// login verifies credentials and sets the session cookie
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body credentialsRequest true "Credentials"
// @Success 200 {object} auth.Identity
// @Failure 400 {object} ErrorResponse "Bad Request - Missing field"
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid username or password"
// @Failure 429 {object} ErrorResponse "Too many login attempts"
// @Router /login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := h.decoder.decode(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		session, err := h.gate.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.cookies.set(w, session.Token); err != nil {
			_ = h.gate.Logout(r.Context(), session.Token)
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not create session", err))
			return
		}

		h.responder.WriteJSON(w, auth.Identity{ModeratorID: session.ModeratorID, Username: session.Username})
	}
}

// logout ends the current session
// @Summary Log out
// @Tags Auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.gate.Logout(r.Context(), ctxGetSessionToken(r.Context())); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.cookies.clear(w)
		h.responder.WriteMessage(w, http.StatusOK, "Logged out successfully.")
	}
}

// me describes the logged in moderator
// @Summary Current moderator
// @Tags Auth
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := ctxGetIdentity(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteJSON(w, MeResponse{
			Message:  fmt.Sprintf("Logged in as %s.", identity.Username),
			ID:       identity.ModeratorID,
			Username: identity.Username,
		})
	}
}
