package status

import "github.com/crimson-sun/lampwatch/internal/model"

// Classify computes the display status for one light from its last
// repair time and the full report set. Pure function; callers recompute
// it whenever any underlying event set changes.
func Classify(light model.Light, lastFixed map[string]int64, reports []model.Report) model.LightStatus {
	fixMs := lastFixed[light.ID]

	var since []model.Report
	for _, r := range reports {
		if r.LightID != light.ID {
			continue
		}
		// A report counts only when filed strictly after the repair.
		if fixMs > 0 && r.CreatedAt <= fixMs {
			continue
		}
		since = append(since, r)
	}

	tier := tierFor(len(since))
	st := model.LightStatus{
		Light:           light,
		Tier:            tier,
		Color:           tier.Color(),
		Label:           model.OperationalLabel,
		ReportsSinceFix: len(since),
	}
	if len(since) > 0 {
		st.MajorityType = majorityType(since)
		st.Label = model.ReportTypeLabel(st.MajorityType)
	}
	return st
}

func tierFor(count int) model.Tier {
	switch {
	case count == 0:
		return model.TierOperational
	case count <= 3:
		return model.TierReported
	case count <= 6:
		return model.TierLikelyOut
	default:
		return model.TierConfirmedOut
	}
}

// majorityType tallies report types in first-encountered order so that
// ties deterministically go to the type seen earliest in the input.
func majorityType(reports []model.Report) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range reports {
		key := model.CanonicalReportType(r.Type)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	best := order[0]
	for _, key := range order[1:] {
		if counts[key] > counts[best] {
			best = key
		}
	}
	return best
}
