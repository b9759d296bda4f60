package chi

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/dira-homes/dira/internal/domain"
	"github.com/dira-homes/dira/internal/logger"
	attachmentuc "github.com/dira-homes/dira/internal/usecase/attachment"
)

const uploadField = "files"

// UploadFiles handles POST /apartments/publish/upload-files?apartmentId=.
func (s *Server) UploadFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			s.handleDomainError(w, domain.ErrNoFiles)
			return
		default:
			writeError(w, http.StatusBadRequest, "Invalid multipart body")
			return
		}
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[uploadField]
	files := make([]attachmentuc.File, len(headers))
	for i, fh := range headers {
		files[i] = fileFromHeader(fh)
	}

	saved, err := s.svc.Files.Upload(r.Context(), r.URL.Query().Get("apartmentId"), files)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, filesToResponse(saved))
}

func fileFromHeader(fh *multipart.FileHeader) attachmentuc.File {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return attachmentuc.File{
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// GetFile handles GET /apartments/get-file?key=&download=.
func (s *Server) GetFile(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	var download bool
	if err := runtime.BindQueryParameter("form", true, false, "download", values, &download); err != nil {
		download = false
	}

	key := values.Get("key")
	obj, err := s.svc.Files.GetFile(r.Context(), key)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	defer obj.Body.Close()

	disposition := "inline"
	if download {
		disposition = mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(key)})
		if disposition == "" {
			disposition = "attachment"
		}
	}
	w.Header().Set("Content-Disposition", disposition)
	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		logger.FromContext(r.Context()).Warn("file stream interrupted",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
