package images

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxImageSize is the largest decoded image accepted for identification.
const MaxImageSize = 10 * 1024 * 1024

// DefaultMediaType is assumed when a base64 string carries no data URL prefix.
const DefaultMediaType = "image/jpeg"

var (
	ErrNoImage          = errors.New("no image provided")
	ErrTooLarge         = errors.New("image too large (max 10MB)")
	ErrUnsupportedType  = errors.New("only image files are allowed")
	ErrInvalidEncoding  = errors.New("image is not valid base64")
	dataURLPattern      = regexp.MustCompile(`^data:(.+);base64,(.*)$`)
	extensionMediaTypes = map[string]string{
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
		".png":  "image/png",
		".gif":  "image/gif",
		".webp": "image/webp",
	}
)

// Image is a base64 payload paired with its media type, ready to send to a
// vision provider.
type Image struct {
	Data      string
	MediaType string
}

// DataURL renders the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MediaType + ";base64," + i.Data
}

// Bytes decodes the payload.
func (i Image) Bytes() ([]byte, error) {
	return decodeBase64(i.Data)
}

// FromDataURL parses a data URL such as the ones produced by a browser camera
// capture. Strings without a data: prefix are treated as a bare JPEG payload.
func FromDataURL(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Image{}, ErrNoImage
	}

	img := Image{Data: s, MediaType: DefaultMediaType}
	if m := dataURLPattern.FindStringSubmatch(s); m != nil {
		img = Image{MediaType: m[1], Data: m[2]}
	}

	if err := img.Validate(); err != nil {
		return Image{}, err
	}

	// providers only accept padded standard base64
	data, err := decodeBase64(img.Data)
	if err != nil {
		return Image{}, err
	}
	img.Data = base64.StdEncoding.EncodeToString(data)
	return img, nil
}

// FromBytes encodes raw image bytes with the given media type.
func FromBytes(data []byte, mediaType string) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrNoImage
	}
	if len(data) > MaxImageSize {
		return Image{}, ErrTooLarge
	}
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if !isImageType(mediaType) {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}
	return Image{
		Data:      base64.StdEncoding.EncodeToString(data),
		MediaType: mediaType,
	}, nil
}

// FromUpload reads a multipart file and encodes it with its declared MIME type.
func FromUpload(header *multipart.FileHeader) (Image, error) {
	if header == nil {
		return Image{}, ErrNoImage
	}
	if header.Size > MaxImageSize {
		return Image{}, ErrTooLarge
	}

	mediaType := header.Header.Get("Content-Type")
	if !isImageType(mediaType) {
		return Image{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
	}

	file, err := header.Open()
	if err != nil {
		return Image{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		return Image{}, err
	}
	return FromBytes(data, mediaType)
}

// FromFile reads an image from disk. The media type comes from the file
// extension, falling back to content sniffing.
func FromFile(path string) (Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		return Image{}, err
	}

	mediaType := extensionMediaTypes[strings.ToLower(filepath.Ext(path))]
	return FromBytes(data, mediaType)
}

// Validate checks the media type, the base64 encoding and the decoded size.
func (i Image) Validate() error {
	if i.Data == "" {
		return ErrNoImage
	}
	if !isImageType(i.MediaType) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, i.MediaType)
	}
	// bound the decoded size before decoding
	if base64.StdEncoding.DecodedLen(len(i.Data)) > MaxImageSize+3 {
		return ErrTooLarge
	}
	data, err := decodeBase64(i.Data)
	if err != nil {
		return err
	}
	if len(data) > MaxImageSize {
		return ErrTooLarge
	}
	return nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageSize {
		return nil, ErrTooLarge
	}
	return data, nil
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return nil, ErrInvalidEncoding
}

func isImageType(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}
