// Package attachment turns uploaded files into self-contained attachment
// records stored inline on their owning flight or accommodation.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/viajafacil/viajafacil/internal/models"
)

// MaxSize is the attachment size cap in bytes. Oversized files are rejected
// before any encoding happens.
const MaxSize = 500000

// ErrTooLarge is returned for files over MaxSize.
var ErrTooLarge = errors.New("attachment exceeds size limit")

// Ingest validates and encodes an uploaded file into an attachment record.
// The payload is stored as a data URI so the record is portable through
// backup export/import without a separate file store.
func Ingest(name, mimeType string, data []byte) (models.Attachment, error) {
	if len(data) > MaxSize {
		return models.Attachment{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), MaxSize)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return models.Attachment{
		ID:   models.NewID(),
		Name: name,
		Type: mimeType,
		Data: fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)),
	}, nil
}
