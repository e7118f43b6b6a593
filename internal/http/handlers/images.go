package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"studio/internal/studio"
)

const multipartMemory = 32 << 20

func (a *App) ListImages(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": toImageViews(a.Studio.Images())})
}

// UploadImages accepts one or more multipart "files" fields.
func (a *App) UploadImages(w http.ResponseWriter, r *http.Request) {
	files, ok := a.readFiles(w, r, "files")
	if !ok {
		return
	}
	if len(files) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "no files uploaded")
		return
	}
	added, err := a.Studio.Upload(r.Context(), files)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"items": toImageViews(added)})
}

func (a *App) GetImage(w http.ResponseWriter, r *http.Request) {
	img, err := a.Studio.Image(chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toImageView(img))
}

func (a *App) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if _, err := a.Studio.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProcessImage starts or retries one render. The job outlives the request.
func (a *App) ProcessImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.Studio.Process(id); err != nil {
		a.fail(w, r, err)
		return
	}
	img, err := a.Studio.Image(id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusAccepted, toImageView(img))
}

func (a *App) ProcessAll(w http.ResponseWriter, r *http.Request) {
	jobs := a.Studio.ProcessAll()
	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	a.json(w, http.StatusAccepted, map[string]any{"started": ids})
}

func (a *App) DownloadImage(w http.ResponseWriter, r *http.Request) {
	dl, err := a.Studio.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeAttachment(w, dl.Filename, dl.ContentType, dl.Data)
}

// Archive returns a zip of every completed result.
func (a *App) Archive(w http.ResponseWriter, r *http.Request) {
	data, n, err := a.Studio.Archive(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if n == 0 {
		a.error(w, http.StatusNotFound, "nothing_completed", "no completed images to archive")
		return
	}
	writeAttachment(w, "LaParis_Studio.zip", "application/zip", data)
}

// Blob serves stored bytes for previews.
func (a *App) Blob(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := a.Studio.Blob(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *App) readFiles(w http.ResponseWriter, r *http.Request, field string) ([]studio.Upload, bool) {
	if a.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		a.error(w, http.StatusBadRequest, "bad_request", "expected multipart form data")
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[field]
	out := make([]studio.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unreadable upload")
			return nil, false
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "unreadable upload")
			return nil, false
		}
		out = append(out, studio.Upload{Filename: fh.Filename, Data: data})
	}
	return out, true
}

func writeAttachment(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
