package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/internal/domain/gateway"
	"github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/mailer"
)

// Upload is a validated multipart file handed over by the HTTP layer.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

const (
	folderAvatars   = "avatars"
	folderDocuments = "store-documents"
	folderProjects  = "projects"
	folderProducts  = "products"
)

func uploadAll(ctx context.Context, files gateway.FileStore, folder, owner string, uploads []Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if files == nil {
		return nil, ErrStorageUnavailable
	}
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := files.Upload(ctx, folder, owner, u.Filename, u.ContentType, u.Body)
		if errors.Is(err, helpers.ErrStorageNotConfigured) {
			return nil, ErrStorageUnavailable
		}
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", u.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// notFound translates a repository miss into the service's own error.
func notFound(err, as error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return as
	}
	return err
}

// enqueueMail is best-effort: a failed enqueue is logged, never returned.
func enqueueMail(ctx context.Context, q gateway.MailQueue, logger logrus.FieldLogger, job mailer.EmailJob) {
	if q == nil {
		return
	}
	if err := q.Enqueue(ctx, job); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Error("enqueue email failed")
	}
}

func normalizePage(page, limit, def, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = def
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func totalPages(total, limit int) int {
	if limit <= 0 || total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// keepImages returns the members of keep that are in existing. A nil keep
// retains everything.
func keepImages(existing, keep []string) []string {
	if keep == nil {
		return existing
	}
	out := make([]string, 0, len(keep))
	for _, u := range keep {
		if slices.Contains(existing, u) {
			out = append(out, u)
		}
	}
	return out
}
