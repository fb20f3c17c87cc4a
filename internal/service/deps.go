package service

import (
	"io"

	"github.com/ideahub-dev/ideahub/internal/logger"
)

// BlobStorage is the attachment blob store, consumed through keyed puts and
// deletes only; reads are served outside the core.
type BlobStorage interface {
	Save(key string, data io.Reader, size int64, contentType string) error
	Delete(key string) error
}

// Notifier delivers emails. Calls are fire-and-forget: failures are logged
// and never block or fail the operation that triggered them.
type Notifier interface {
	Send(to []string, subject, text, html string) error
}

func notifyAsync(n Notifier, to []string, subject, text, html string) {
	if n == nil || len(to) == 0 {
		return
	}
	go func() {
		if err := n.Send(to, subject, text, html); err != nil {
			logger.Log.Error("notification send failed", "subject", subject, "recipients", len(to), "error", err)
		}
	}()
}
