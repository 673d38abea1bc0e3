package status

import "github.com/crimson-sun/lampwatch/internal/model"

// LastFixed merges the two independent repair record sources into one
// last-fixed-at timestamp per light: the maximum across all fix events
// and "fix" actions. The reduction is associative and commutative, so
// input order and duplication never change the result.
//
// Lights with no repair record are absent from the map; callers treat
// absence as "never fixed" (zero value).
func LastFixed(fixes []model.FixEvent, actions []model.LightAction) map[string]int64 {
	out := make(map[string]int64)
	for _, f := range fixes {
		if f.LightID == "" {
			continue
		}
		if cur, ok := out[f.LightID]; !ok || f.FixedAt > cur {
			out[f.LightID] = f.FixedAt
		}
	}
	for _, a := range actions {
		if a.LightID == "" || a.Action != model.ActionFix {
			continue
		}
		if cur, ok := out[a.LightID]; !ok || a.CreatedAt > cur {
			out[a.LightID] = a.CreatedAt
		}
	}
	return out
}
