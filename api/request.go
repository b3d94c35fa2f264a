package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rpupo63/portfolio-backend/errs"
)

// requestDecoder reads JSON bodies into request schemas and validates them before any
// handler logic runs.
type requestDecoder struct {
	maxBodyBytes int64
	validate     *validator.Validate
}

func newRequestDecoder(maxBodyBytes int64) requestDecoder {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt limits passwords by bytes while max counts runes
	_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return requestDecoder{maxBodyBytes: maxBodyBytes, validate: validate}
}

func (d requestDecoder) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), []string{"application/json"})
	}

	body := http.MaxBytesReader(w, r.Body, d.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr), strings.Contains(err.Error(), "request body too large"):
			return errs.NewMaxBodySizeExceededError(d.maxBodyBytes)
		case errors.Is(err, io.EOF):
			return errs.NewMalformedPayloadError("json", errors.New("empty body"))
		default:
			return errs.NewMalformedPayloadError("json", err)
		}
	}

	return d.check(dst)
}

func (d requestDecoder) check(dst any) error {
	err := d.validate.Struct(dst)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return errs.NewMalformedPayloadError("json", err)
	}

	fe := validationErrs[0]
	field := fieldPath(fe.Namespace())
	if fe.Tag() == "required" {
		return errs.NewMissingRequiredFieldError(field)
	}
	return errs.NewInvalidFieldError(field, describeTag(fe))
}

// fieldPath drops the struct name validator puts in front of the namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// pathID reads a positive integer URL parameter.
func pathID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError(name, "must be a positive integer")
	}
	return uint(id), nil
}
