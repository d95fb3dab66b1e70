package web

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/toastkit/pkg/clientip"
	"github.com/dmitrymomot/toastkit/pkg/sanitizer"
	"github.com/dmitrymomot/toastkit/pkg/toast"
)

// minQueryLen is the length a query must exceed before it is searched.
const minQueryLen = 2

type searchSignals struct {
	Q        string `json:"q"`
	ClientID string `json:"clientId"`
}

// searchQuery announces the query once the client stops typing. Every call
// restarts the quiet period for its client, including short queries, which
// only cancel.
func (s *Server) searchQuery(w http.ResponseWriter, r *http.Request) error {
	var sig searchSignals
	if isDataStar(r) {
		if err := datastar.ReadSignals(r, &sig); err != nil {
			return fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
	} else {
		sig.Q = r.URL.Query().Get("q")
	}

	key := sig.ClientID
	if key == "" {
		key = clientip.FromContext(r.Context())
	}

	q := sanitizer.Query(sig.Q)
	if utf8.RuneCountInString(q) <= minQueryLen {
		s.search.Cancel(key)
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	// The request is gone by the time the debouncer fires.
	ctx := context.WithoutCancel(r.Context())
	s.search.Trigger(key, func() {
		s.toasts.Notify(ctx, "Searching for: "+q, toast.SeverityInfo)
	})

	w.WriteHeader(http.StatusAccepted)
	return nil
}
