package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ParseRequest is the body of POST /parse
type ParseRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreateSourceRequest is the body of POST /users/{id}/sources
type CreateSourceRequest struct {
	Text     string `json:"text" validate:"required"`
	Filename string `json:"filename" validate:"omitempty,max=255"`
	MimeType string `json:"mime_type" validate:"omitempty,max=127"`
	// Parse runs the import right away instead of leaving the source pending
	Parse bool `json:"parse"`
}

// decodeRequest decodes a JSON body into dst and validates its tags
func (s *Server) decodeRequest(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: strings.ToLower(fe.Field()), Message: "failed on " + fe.Tag()}
		}
		return err
	}
	return nil
}

// blankText reports whether text has no visible content
func blankText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ErrValidation{Field: "text", Message: "must not be blank"}
	}
	return nil
}

// pathUUID reads a UUID path parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "invalid UUID"}
	}
	return id, nil
}
