package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

type notifyRequest struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// bindNotify reads a notify request from datastar signals, a JSON body or a form.
func bindNotify(r *http.Request) (notifyRequest, error) {
	var req notifyRequest

	if isDataStar(r) {
		if err := datastar.ReadSignals(r, &req); err != nil {
			return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		return req, nil
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return req, fmt.Errorf("%w: %w", ErrUnsupportedMediaType, err)
	}

	switch mediaType {
	case "application/json":
		return req, decodeJSON(r.Body, &req)
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		req.Message = r.FormValue("message")
		req.Severity = r.FormValue("severity")
		return req, nil
	default:
		return req, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}

// decodeJSON rejects unknown fields and trailing data.
func decodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %w: empty body", ErrBadRequest, ErrInvalidJSON)
		}
		return fmt.Errorf("%w: %w: %v", ErrBadRequest, ErrInvalidJSON, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w: unexpected data after JSON object", ErrBadRequest, ErrInvalidJSON)
	}
	return nil
}
