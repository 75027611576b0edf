package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/brickbuilder/internal/identify"
	"github.com/lehigh-university-libraries/brickbuilder/internal/images"
)

// identifyRequest is the JSON form of POST /api/identify, used by camera captures
type identifyRequest struct {
	ImageBase64 string          `json:"imageBase64"`
	BatchMode   json.RawMessage `json:"batchMode"`
}

func (h *Handler) HandleIdentify(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBytes)

	img, mode, err := h.readImage(r)
	if err != nil {
		h.writeImageError(w, err)
		return
	}

	result, err := h.identifier.Identify(r.Context(), img, mode)
	if err != nil {
		h.writeErrorDetails(w, "Failed to identify brick", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, result)
}

// readImage accepts a multipart upload (field "image", or "file") or a JSON
// body carrying a data URL or bare base64 payload
func (h *Handler) readImage(r *http.Request) (images.Image, identify.Mode, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "application/json":
		var request identifyRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return images.Image{}, "", err
			}
			return images.Image{}, "", fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		img, err := images.FromDataURL(request.ImageBase64)
		return img, identify.ModeFromBatch(parseBool(string(request.BatchMode))), err

	case strings.HasPrefix(mediaType, "multipart/"):
		if err := r.ParseMultipartForm(MaxRequestBytes); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return images.Image{}, "", err
			}
			return images.Image{}, "", fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		mode := identify.ModeFromBatch(parseBool(r.FormValue("batchMode")))

		if header := uploadedFile(r.MultipartForm, "image", "file"); header != nil {
			img, err := images.FromUpload(header)
			return img, mode, err
		}
		img, err := images.FromDataURL(r.FormValue("imageBase64"))
		return img, mode, err

	default:
		return images.Image{}, "", images.ErrNoImage
	}
}

var errInvalidBody = errors.New("invalid request body")

func uploadedFile(form *multipart.Form, fields ...string) *multipart.FileHeader {
	if form == nil {
		return nil
	}
	for _, field := range fields {
		if files := form.File[field]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func (h *Handler) writeImageError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, images.ErrTooLarge):
		h.writeErrorDetails(w, "Image too large", fmt.Sprintf("images are limited to %d MB", images.MaxImageSize>>20), http.StatusRequestEntityTooLarge)
	case errors.Is(err, images.ErrNoImage):
		h.writeError(w, "No image provided", http.StatusBadRequest)
	case errors.Is(err, images.ErrUnsupportedType):
		h.writeErrorDetails(w, "Only image files are allowed!", err.Error(), http.StatusBadRequest)
	case errors.Is(err, images.ErrInvalidEncoding):
		h.writeErrorDetails(w, "Invalid image data", err.Error(), http.StatusBadRequest)
	default:
		h.writeErrorDetails(w, "Invalid request", err.Error(), http.StatusBadRequest)
	}
}

// parseBool accepts true/false in any case, JSON booleans and quoted strings
func parseBool(s string) bool {
	b, err := strconv.ParseBool(strings.Trim(strings.TrimSpace(s), `"`))
	return err == nil && b
}
