package model

// Report types accepted from the intake form and found in the reports table.
const (
	ReportOut        = "out"
	ReportFlickering = "flickering"
	ReportDayburner  = "dayburner"
	ReportDownedPole = "downed_pole"
	ReportOther      = "other"
)

// legacyAliases maps report types written by older clients to their
// current keys.
var legacyAliases = map[string]string{
	"broken":  ReportOut,
	"flicker": ReportFlickering,
}

var reportLabels = map[string]string{
	ReportOut:        "Light out",
	ReportFlickering: "Flickering",
	ReportDayburner:  "On during the day",
	ReportDownedPole: "Downed pole",
	ReportOther:      "Other problem",
}

// CanonicalReportType resolves legacy aliases and defaults empty values
// to "other".
func CanonicalReportType(t string) string {
	if t == "" {
		return ReportOther
	}
	if canonical, ok := legacyAliases[t]; ok {
		return canonical
	}
	return t
}

// ReportTypeLabel returns the human-readable name for a report type.
// Unrecognized keys fall back to the raw key.
func ReportTypeLabel(t string) string {
	if label, ok := reportLabels[CanonicalReportType(t)]; ok {
		return label
	}
	return t
}
