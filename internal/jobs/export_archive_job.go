package jobs

import (
	"context"
	"time"

	"github.com/odo-atelier/budget-api/internal/auth"
	"go.uber.org/zap"
)

// ExportArchiveJobName is the name of the nightly export archive job
const ExportArchiveJobName = "export_archive"

// ProjectArchiver stores an export of every project
type ProjectArchiver interface {
	ArchiveAll(ctx context.Context) (int, error)
}

// ExportArchiveJob keeps a dated CSV snapshot of each project in file storage
type ExportArchiveJob struct {
	archiver ProjectArchiver
	logger   *zap.Logger
	timeout  time.Duration
}

func NewExportArchiveJob(archiver ProjectArchiver, logger *zap.Logger, timeout time.Duration) *ExportArchiveJob {
	return &ExportArchiveJob{archiver: archiver, logger: logger, timeout: timeout}
}

func (j *ExportArchiveJob) Name() string           { return ExportArchiveJobName }
func (j *ExportArchiveJob) Timeout() time.Duration { return j.timeout }

// Run archives every project as the system user. Projects that fail are
// reported in the returned error after the others are archived.
func (j *ExportArchiveJob) Run(ctx context.Context) error {
	ctx = auth.WithUserContext(ctx, auth.NewSystemContext())

	archived, err := j.archiver.ArchiveAll(ctx)
	j.logger.Info("export archive run finished", zap.Int("archived", archived))
	return err
}
