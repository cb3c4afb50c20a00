package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"artisan-market/internal/domain"

	"github.com/rs/zerolog/log"
)

// RawFile is a selected file as handed over by the file-selection capability.
type RawFile struct {
	Name      string
	MediaType string
	Size      int64
	Body      io.Reader
}

var acceptedTypes = []string{"image/jpeg", "image/png", "image/gif"}

// AcceptedTypes lists the media types the pipeline will encode.
func AcceptedTypes() []string {
	return append([]string(nil), acceptedTypes...)
}

// AcceptHint is the value for a file input's accept attribute.
func AcceptHint() string {
	return strings.Join(acceptedTypes, ",")
}

// MediaTypeForFile guesses the media type of a local file from its extension.
func MediaTypeForFile(name string) string {
	return normalizeMediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(name))))
}

// Validate checks the declared media type, then the declared size.
func Validate(f RawFile) error {
	if !isAccepted(normalizeMediaType(f.MediaType)) {
		return domain.ErrInvalidFileType
	}
	if f.Size > domain.MaxImageBytes {
		return domain.ErrFileTooLarge
	}
	return nil
}

// ValidateAndEncode validates f and, if it passes, reads and encodes it.
func ValidateAndEncode(ctx context.Context, f RawFile) (domain.EncodedImage, error) {
	if err := Validate(f); err != nil {
		return domain.EncodedImage{}, err
	}
	return Encode(ctx, f)
}

// Encode reads the whole body and returns it as a base64 data URI. At most
// MaxImageBytes+1 bytes are read, so a body longer than its declared size is still
// rejected with ErrFileTooLarge.
func Encode(ctx context.Context, f RawFile) (domain.EncodedImage, error) {
	if f.Body == nil {
		return domain.EncodedImage{}, fmt.Errorf("%w: no content", domain.ErrImageReadFailed)
	}
	data, err := io.ReadAll(&ctxReader{ctx: ctx, r: io.LimitReader(f.Body, domain.MaxImageBytes+1)})
	if err != nil {
		return domain.EncodedImage{}, fmt.Errorf("%w: %w", domain.ErrImageReadFailed, err)
	}
	if int64(len(data)) > domain.MaxImageBytes {
		return domain.EncodedImage{}, domain.ErrFileTooLarge
	}

	mediaType := normalizeMediaType(f.MediaType)
	width, height, err := dimensions(data)
	if err != nil {
		log.Debug().Err(err).Str("file", f.Name).Msg("images: could not read dimensions")
	}
	return domain.EncodedImage{
		DataURI:   "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data),
		MediaType: mediaType,
		FileName:  f.Name,
		Size:      int64(len(data)),
		Width:     width,
		Height:    height,
	}, nil
}

// Decode splits a base64 data URI back into its media type and raw bytes.
func Decode(dataURI string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("data URI has no payload separator")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URI payload: %w", err)
	}
	return mediaType, data, nil
}

func isAccepted(mediaType string) bool {
	for _, t := range acceptedTypes {
		if t == mediaType {
			return true
		}
	}
	return false
}

func normalizeMediaType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if mt, _, err := mime.ParseMediaType(s); err == nil {
		return mt
	}
	return s
}

func dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
