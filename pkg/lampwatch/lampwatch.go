package lampwatch

import (
	"github.com/crimson-sun/lampwatch/internal/model"
	"github.com/crimson-sun/lampwatch/internal/status"
)

// Light identifies a tracked streetlight.
type Light struct {
	ID        string
	DisplayID string
	Lat       float64
	Lng       float64
}

// FixEvent records a repair at a point in time (epoch milliseconds).
type FixEvent struct {
	LightID string
	FixedAt int64
}

// Action is a maintenance action record. Only Kind "fix" affects
// classification.
type Action struct {
	LightID   string
	Kind      string
	CreatedAt int64
}

// Report is a citizen-submitted incident record.
type Report struct {
	ID        string
	LightID   string
	Type      string
	CreatedAt int64
}

// Tier is the severity classification for a light.
type Tier string

const (
	TierOperational  Tier = "operational"
	TierReported     Tier = "reported"
	TierLikelyOut    Tier = "likely_out"
	TierConfirmedOut Tier = "confirmed_out"
)

// Status is the derived display status for a light.
type Status struct {
	Tier            Tier
	Color           string
	Label           string
	ReportsSinceFix int
	MajorityType    string
}

// LastFixed merges the two repair record sources into the effective
// last-fixed-at time per light: the maximum timestamp across both. The
// reduction is order-independent; lights with no record are absent and
// read as never fixed.
func LastFixed(fixes []FixEvent, actions []Action) map[string]int64 {
	mf := make([]model.FixEvent, len(fixes))
	for i, f := range fixes {
		mf[i] = model.FixEvent{LightID: f.LightID, FixedAt: f.FixedAt}
	}
	ma := make([]model.LightAction, len(actions))
	for i, a := range actions {
		ma[i] = model.LightAction{LightID: a.LightID, Action: a.Kind, CreatedAt: a.CreatedAt}
	}
	return status.LastFixed(mf, ma)
}

// Classify computes the display status for one light: reports filed
// strictly after the light's effective fix time are counted into a
// severity tier, and the majority report type becomes the label.
func Classify(light Light, lastFixed map[string]int64, reports []Report) Status {
	mr := make([]model.Report, len(reports))
	for i, r := range reports {
		mr[i] = model.Report{ID: r.ID, LightID: r.LightID, Type: r.Type, CreatedAt: r.CreatedAt}
	}
	st := status.Classify(model.Light{
		ID:        light.ID,
		DisplayID: light.DisplayID,
		Lat:       light.Lat,
		Lng:       light.Lng,
	}, lastFixed, mr)

	return Status{
		Tier:            Tier(st.Tier.String()),
		Color:           st.Color,
		Label:           st.Label,
		ReportsSinceFix: st.ReportsSinceFix,
		MajorityType:    st.MajorityType,
	}
}

// ReportTypeLabel returns the human-readable name for a report type,
// folding legacy aliases. Unrecognized keys come back unchanged.
func ReportTypeLabel(reportType string) string {
	return model.ReportTypeLabel(reportType)
}
