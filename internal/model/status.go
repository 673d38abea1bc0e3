package model

// Tier is the discrete severity classification derived from the number
// of reports filed since a light's last repair.
type Tier int

const (
	TierOperational Tier = iota
	TierReported
	TierLikelyOut
	TierConfirmedOut
)

func (t Tier) String() string {
	switch t {
	case TierOperational:
		return "operational"
	case TierReported:
		return "reported"
	case TierLikelyOut:
		return "likely_out"
	case TierConfirmedOut:
		return "confirmed_out"
	default:
		return "unknown"
	}
}

// Color returns the marker color for the tier.
func (t Tier) Color() string {
	switch t {
	case TierReported:
		return "#f6c343"
	case TierLikelyOut:
		return "#f39c12"
	case TierConfirmedOut:
		return "#d32f2f"
	default:
		return "#111"
	}
}

// OperationalLabel is the public display label for a light with no
// reports since its last repair.
const OperationalLabel = "Operational"

// LightStatus is the derived, non-persisted display status for one light.
// It is a pure function of the light plus all fix events, actions, and
// reports, recomputed on every refresh.
type LightStatus struct {
	Light           Light
	Tier            Tier
	Color           string
	Label           string // "Operational" or the majority report type's name
	ReportsSinceFix int
	MajorityType    string // empty when no reports since fix
}
