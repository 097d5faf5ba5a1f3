// internal/app/features/courses/upload.go
package courses

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cogitoedu/coursehub/internal/app/system/httpjson"
	"github.com/cogitoedu/coursehub/internal/app/system/limits"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// uploadResponse carries what the client needs to build a file block:
// the served URL plus the original name and size.
type uploadResponse struct {
	URL      string `json:"url"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// HandleUpload handles POST /courses/{courseID}/files (multipart form,
// field "file"). The file lands under UploadDir/courses/YYYY/MM and is
// served back through the file server at UploadBaseURL. The tree stores
// only the returned URL string.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.loadCourse(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadSize)
	if err := r.ParseMultipartForm(limits.MaxUploadSize); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "could not parse upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	now := time.Now().UTC()
	relDir := filepath.Join("courses", fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", now.Month()))
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(header.Filename))

	absDir := filepath.Join(h.UploadDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		h.Log.Error("upload dir create failed", zap.String("dir", absDir), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}

	dst, err := os.Create(filepath.Join(absDir, uniqueName))
	if err != nil {
		h.Log.Error("upload create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		h.Log.Error("upload write failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not store file")
		return
	}

	url := path.Join(h.UploadBaseURL, filepath.ToSlash(relDir), uniqueName)
	h.Log.Info("lesson file stored",
		zap.String("url", url),
		zap.Int64("size", size))

	httpjson.Respond(w, http.StatusCreated, uploadResponse{
		URL:      url,
		FileName: header.Filename,
		FileSize: size,
	})
}

// sanitizeFilename strips path components and replaces characters that
// could be problematic in filenames.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		// Truncate but preserve the extension if present.
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
