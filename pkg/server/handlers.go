package server

import (
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/rangeplot/pkg/errors"
	"github.com/matzehuels/rangeplot/pkg/pipeline"
	"github.com/matzehuels/rangeplot/pkg/render/sink"
)

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>rangeplot</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 24px; }
  td, th { padding: 4px 12px; text-align: left; }
</style>
</head>
<body>
<h1>Figures</h1>
{{- if .}}
<table>
<tr><th>Title</th><th>Genes</th><th>Created</th><th></th></tr>
{{- range .}}
<tr><td><a href="/figures/{{.ID}}">{{.Title}}</a></td><td>{{.Genes}}</td><td>{{.CreatedAt.Format "2006-01-02 15:04:05"}}</td>
<td><a href="/figures/{{.ID}}.svg">svg</a> <a href="/figures/{{.ID}}.json">json</a></td></tr>
{{- end}}
</table>
{{- else}}
<p>No figures yet. POST data files to /figures.</p>
{{- end}}
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	figs, err := s.store.List(r.Context(), 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage.Execute(w, figs); err != nil {
		s.logger.Error("render index", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	figs, err := s.store.List(r.Context(), 0)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, figs)
}

// handleGet serves /figures/{id} as HTML and /figures/{id}.svg or .json as
// the other stored forms.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ext, _ := strings.Cut(chi.URLParam(r, "id"), ".")
	f, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var (
		body  []byte
		ctype string
	)
	switch ext {
	case "", sink.FormatHTML:
		body, ctype = f.HTML, "text/html; charset=utf-8"
	case sink.FormatSVG:
		body, ctype = f.SVG, "image/svg+xml"
	case sink.FormatJSON:
		body, ctype = f.Scene, "application/json"
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported figure format %q", ext))
		return
	}
	if len(body) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "figure %s has no %s form", id, ctype))
		return
	}
	w.Header().Set("Content-Type", ctype)
	_, _ = w.Write(body)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createResponse struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Genes    int      `json:"genes"`
	Warnings []string `json:"warnings,omitempty"`
}

// handleCreate plots the uploaded "file" parts with options from the other
// form fields and stores the result.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse upload"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "no data file uploaded (form field \"file\")"))
		return
	}

	opts, err := optionsFromForm(s.defaults, r.MultipartForm.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{sink.FormatHTML, sink.FormatSVG}

	dir, err := os.MkdirTemp("", "rangeplot-upload-")
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer os.RemoveAll(dir)

	paths := make([]string, len(files))
	for i, fh := range files {
		p, err := saveUpload(dir, i, fh)
		if err != nil {
			s.writeError(w, err)
			return
		}
		paths[i] = p
	}

	datasets, err := pipeline.LoadDatasets(r.Context(), paths)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), datasets, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(files[0].Filename, filepath.Ext(files[0].Filename))
	}
	f, err := s.Publish(r.Context(), title, res)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{
		ID:       f.ID,
		URL:      "/figures/" + f.ID,
		Title:    f.Title,
		Genes:    f.Genes,
		Warnings: f.Warnings,
	})
}

// saveUpload writes one part to dir, keeping its extension so the reader
// can be picked, and naming it after the upload.
func saveUpload(dir string, i int, fh *multipart.FileHeader) (string, error) {
	name := filepath.Base(fh.Filename)
	if name == "." || name == string(filepath.Separator) {
		return "", errors.New(errors.ErrCodeInvalidInput, "upload %d has no file name", i)
	}
	sub := filepath.Join(dir, strconv.Itoa(i))
	if err := os.MkdirAll(sub, 0o700); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "open upload %s", name)
	}
	defer src.Close()

	path := filepath.Join(sub, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	return path, dst.Close()
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func statusFor(err error) int {
	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeNotFound || code == errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case code == errors.ErrCodeEmptyData || strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}
