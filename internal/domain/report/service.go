package report

import (
	"context"
)

type ReportService interface {
	Build(ctx context.Context, q Query) (Report, error)
	UserDetail(ctx context.Context, userName string, q Query) (UserDetail, error)

	// Export renders the weekly public-work-hours workbook for the range
	// and returns the xlsx bytes.
	Export(ctx context.Context, q Query) ([]byte, error)
}
