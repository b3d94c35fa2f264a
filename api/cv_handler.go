package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type cvHandler struct {
	responder  Responder
	logger     zerolog.Logger
	uploader   services.CVUploader
	maxCVBytes int64
}

func newCVHandler(uploader services.CVUploader, maxCVBytes int64) cvHandler {
	logger := log.With().Str("handlerName", "cvHandler").Logger()

	return cvHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		uploader:   uploader,
		maxCVBytes: maxCVBytes,
	}
}

// uploadCV stores the multipart file field "cv" in object storage
// @Summary Upload CV
// @Tags CV
// @Accept multipart/form-data
// @Produce json
// @Param cv formData file true "CV document (.pdf, .doc, .docx)"
// @Success 200 {object} CVUploadResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Missing or unsupported file"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 503 {object} ErrorResponse "Object storage unavailable"
// @Router /cv [post]
func (h cvHandler) uploadCV() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.uploader == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("object storage", errors.New("CV_BUCKET is not configured")))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxCVBytes)
		if err := r.ParseMultipartForm(h.maxCVBytes); err != nil {
			var maxBytesErr *http.MaxBytesError
			switch {
			case errors.As(err, &maxBytesErr), strings.Contains(err.Error(), "request body too large"):
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxCVBytes))
			default:
				h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			}
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("cv")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("cv"))
			return
		}
		defer file.Close()

		url, err := h.uploader.Upload(r.Context(), header.Filename, file, header.Size)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, CVUploadResponse{URL: url})
	}
}
