package status

import (
	"math"
	"time"

	"github.com/crimson-sun/lampwatch/internal/fetch"
	"github.com/crimson-sun/lampwatch/internal/model"
)

// epochMs converts a timestamp-like column value to epoch milliseconds.
// Unparsable or missing values normalize to 0 (never fixed, never
// dominant) instead of erroring.
func epochMs(v any) int64 {
	switch t := v.(type) {
	case float64:
		// PostgREST numeric columns arrive as float64 via encoding/json.
		return int64(t)
	case string:
		for _, layout := range []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05.999999",
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
		} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UnixMilli()
			}
		}
		return 0
	default:
		return 0
	}
}

func rowString(row fetch.Row, col string) string {
	if s, ok := row[col].(string); ok {
		return s
	}
	return ""
}

func toLight(row fetch.Row) (model.Light, bool) {
	l := model.Light{
		ID:        rowString(row, "id"),
		DisplayID: rowString(row, "sl_id"),
	}
	lat, latOK := row["lat"].(float64)
	lng, lngOK := row["lng"].(float64)
	if l.ID == "" || !latOK || !lngOK {
		return model.Light{}, false
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return model.Light{}, false
	}
	l.Lat, l.Lng = lat, lng
	return l, true
}

func toFixEvents(rows []fetch.Row) []model.FixEvent {
	events := make([]model.FixEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, model.FixEvent{
			LightID: rowString(row, "light_id"),
			FixedAt: epochMs(row["fixed_at"]),
		})
	}
	return events
}

func toActions(rows []fetch.Row) []model.LightAction {
	actions := make([]model.LightAction, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, model.LightAction{
			LightID:   rowString(row, "light_id"),
			Action:    rowString(row, "action"),
			CreatedAt: epochMs(row["created_at"]),
		})
	}
	return actions
}

func toReports(rows []fetch.Row) []model.Report {
	reports := make([]model.Report, 0, len(rows))
	for _, row := range rows {
		reportType := rowString(row, "report_type")
		if reportType == "" {
			// Rows written by older clients used a bare "type" column.
			reportType = rowString(row, "type")
		}
		reports = append(reports, model.Report{
			ID:        rowString(row, "id"),
			LightID:   rowString(row, "light_id"),
			Type:      reportType,
			CreatedAt: epochMs(row["created_at"]),
		})
	}
	return reports
}
