package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/dmitrymomot/toastkit/pkg/toast"
)

const (
	datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"
	fontAwesome    = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.2/css/all.min.css"

	previewID = "file-preview"
)

type pageSignals struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Q        string `json:"q"`
	ClientID string `json:"clientId"`
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) error {
	var live []toast.Toast
	if s.toasts.HasContainer() {
		live = s.toasts.Snapshot()
	}

	signals := pageSignals{
		Message:  "Hello from toastkit",
		Severity: toast.DefaultSeverity.String(),
		ClientID: uuid.NewString(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return page(signals, live).Render(r.Context(), w)
}

func page(signals pageSignals, live []toast.Toast) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, err := json.Marshal(signals)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>toastkit</title>
<link rel="stylesheet" href="%s">
<script type="module" src="%s"></script>
</head>
<body data-signals="%s" data-init="@get('/toasts/stream')">
<main>
<h1>Notifications</h1>
<section>
<input type="text" data-bind:message>
`, fontAwesome, datastarScript, templ.EscapeString(string(data))); err != nil {
			return err
		}

		for _, sev := range []toast.Severity{toast.SeveritySuccess, toast.SeverityInfo, toast.SeverityWarning, toast.SeverityError} {
			if _, err := fmt.Fprintf(w,
				`<button type="button" data-on:click="$severity = '%s'; @post('/toasts')">%s</button>`+"\n",
				sev, sev); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</section>
<section>
<form id="upload-form" enctype="multipart/form-data" data-on:change="@post('/files', {contentType: 'form'})">
<input type="file" name="audio" accept="audio/*">
</form>
`); err != nil {
			return err
		}
		if err := emptyPreview().Render(ctx, w); err != nil {
			return err
		}

		if _, err := fmt.Fprintf(w, `</section>
<section>
<input type="search" placeholder="Search..." data-bind:q data-on:input="@get('/search')">
</section>
</main>
<div id="%s">`, rootID); err != nil {
			return err
		}
		if live != nil {
			if err := toast.ContainerView(live).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "</div>\n</body>\n</html>\n")
		return err
	})
}

// filePreview shows the selected file with its size in IEC units.
func filePreview(name string, size int64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div id="%s" class="file-preview">`+
				`<i class="fas fa-file-audio"></i> `+
				`<span class="file-name">%s</span> `+
				`<span class="file-size">%s</span> `+
				`<button type="button" data-on:click="@delete('/files')">Remove</button>`+
				`</div>`,
			previewID,
			templ.EscapeString(name),
			humanize.IBytes(uint64(max(size, 0))),
		)
		return err
	})
}

func emptyPreview() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="%s" class="file-preview" style="display: none;"></div>`, previewID)
		return err
	})
}
