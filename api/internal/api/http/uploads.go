package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

const maxUploadBytes = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func imageName(kind string, ids ...int) string {
	parts := []string{kind}
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, "_")
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		return "image"
	}
	return clean
}

// upload checks authorize before reading anything, stages the "image" form
// file in a temp file inside the upload dir and hands its public URL to
// attach. The staged file replaces the published one only after attach
// succeeds, so a rejected upload never touches existing images.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request, prefix string, authorize func() error, attach func(imageURL string) error) {
	if err := authorize(); err != nil {
		h.fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.badRequest(w, r, "image", "file too large or not a multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.badRequest(w, r, "image", "image file is required")
		return
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := io.ReadFull(file, sniff)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.fail(w, r, fmt.Errorf("read upload: %w", err))
		return
	}
	if !allowedImageTypes[http.DetectContentType(sniff[:n])] {
		h.badRequest(w, r, "image", "only JPEG, PNG, GIF and WebP images are allowed")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		h.fail(w, r, fmt.Errorf("rewind upload: %w", err))
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.fail(w, r, fmt.Errorf("create upload directory: %w", err))
		return
	}
	staged, err := stageUpload(h.uploadDir, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer os.Remove(staged)

	filename := prefix + "_" + sanitizeFilename(header.Filename)
	imageURL := "/uploads/" + filename
	if err := attach(imageURL); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := os.Rename(staged, filepath.Join(h.uploadDir, filename)); err != nil {
		h.fail(w, r, fmt.Errorf("publish upload: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": imageURL})
}

// stageUpload copies src into a uniquely named hidden file under dir.
func stageUpload(dir string, src io.Reader) (string, error) {
	dst, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("save upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("save upload: %w", err)
	}
	return dst.Name(), nil
}

// uploadServer serves stored images. Directory listings and staged files
// are not exposed.
func uploadServer(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || strings.HasSuffix(name, "/") || strings.HasPrefix(path.Base(name), ".") {
			http.NotFound(w, r)
			return
		}
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(path.Clean("/"+name))))
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
