package intake

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/crimson-sun/lampwatch/internal/postgrest"
)

// NewReport is the row written to the reports table.
type NewReport struct {
	ID          string `json:"id"`
	LightID     string `json:"light_id"`
	ReportType  string `json:"report_type"`
	Note        string `json:"note,omitempty"`
	AreaPowerOn string `json:"area_power_on,omitempty"`
	Hazard      string `json:"hazard,omitempty"`
}

// Submitter files a validated report with the backing data service.
type Submitter interface {
	SubmitReport(ctx context.Context, report NewReport) error
}

// RESTSubmitter inserts reports through the PostgREST client.
type RESTSubmitter struct {
	client *postgrest.Client
}

// NewSubmitter creates a RESTSubmitter.
func NewSubmitter(client *postgrest.Client) *RESTSubmitter {
	return &RESTSubmitter{client: client}
}

func (s *RESTSubmitter) SubmitReport(ctx context.Context, report NewReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.LightID == "" {
		return fmt.Errorf("intake: report has no light id")
	}
	if err := s.client.PostJSON(ctx, "reports", report); err != nil {
		return fmt.Errorf("intake: submit report: %w", err)
	}
	return nil
}
