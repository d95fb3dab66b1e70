package web

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/toastkit/pkg/sanitizer"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

// selectFile acknowledges the chosen audio file. The content is not stored.
func (s *Server) selectFile(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > s.maxUpload {
		return fmt.Errorf("%w: %d bytes", ErrRequestEntityTooLarge, r.ContentLength)
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: %w", ErrRequestEntityTooLarge, err)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("audio")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return fmt.Errorf("%w: %w", ErrBadRequest, ErrMissingFile)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	_ = file.Close()

	name := sanitizer.Filename(filepath.Base(header.Filename))
	s.toasts.Notify(r.Context(), "File selected: "+name, toast.SeveritySuccess)

	return s.patchPreview(w, r, filePreview(name, header.Size))
}

func (s *Server) removeFile(w http.ResponseWriter, r *http.Request) error {
	s.toasts.Notify(r.Context(), "File removed", toast.SeverityInfo)
	return s.patchPreview(w, r, emptyPreview())
}

func (s *Server) patchPreview(w http.ResponseWriter, r *http.Request, c templ.Component) error {
	if isDataStar(r) {
		sse := datastar.NewSSE(w, r)
		return sse.PatchElementTempl(c)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return c.Render(r.Context(), w)
}
