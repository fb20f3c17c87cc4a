// Package validation checks uploaded attachments before they reach the blob
// store.
package validation

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"slices"

	_ "golang.org/x/image/webp"

	"github.com/ideahub-dev/ideahub/internal/config"
	internal_errors "github.com/ideahub-dev/ideahub/internal/errors"
)

const maxImagePixels = 64 << 20 // width * height

type Validator struct {
	maxSize    int64
	imageMimes []string
	docMimes   []string
}

func New(cfg *config.Public) *Validator {
	return &Validator{
		maxSize:    cfg.MaxAttachmentSize,
		imageMimes: cfg.AllowedImageMimeTypes,
		docMimes:   cfg.AllowedDocMimeTypes,
	}
}

func (v *Validator) checkSize(filename string, size int64) error {
	if v.maxSize > 0 && size > v.maxSize {
		return internal_errors.BadRequest(fmt.Sprintf("File %q exceeds the size limit", filename))
	}
	if size <= 0 {
		return internal_errors.BadRequest(fmt.Sprintf("File %q is empty", filename))
	}
	return nil
}

// CheckImage validates mime type, size and pixel dimensions. It returns a
// reader positioned at the start of the data, since sniffing the config
// consumes the head of the original stream.
func (v *Validator) CheckImage(filename, contentType string, size int64, data io.Reader) (io.Reader, error) {
	if err := v.checkSize(filename, size); err != nil {
		return nil, err
	}
	if !slices.Contains(v.imageMimes, contentType) {
		return nil, internal_errors.BadRequest(fmt.Sprintf("File %q has unsupported type %s", filename, contentType))
	}

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, internal_errors.Upstream("attachment read", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, internal_errors.BadRequest(fmt.Sprintf("File %q is not a valid image", filename))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxImagePixels {
		return nil, internal_errors.BadRequest(fmt.Sprintf("File %q has unsupported dimensions", filename))
	}

	return bytes.NewReader(buf), nil
}

func (v *Validator) CheckDocument(filename, contentType string, size int64) error {
	if err := v.checkSize(filename, size); err != nil {
		return err
	}
	if !slices.Contains(v.docMimes, contentType) {
		return internal_errors.BadRequest(fmt.Sprintf("File %q has unsupported type %s", filename, contentType))
	}
	return nil
}
