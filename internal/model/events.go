package model

// ActionFix is the only light_actions kind that affects status.
const ActionFix = "fix"

// FixEvent records a repair from the fixed_lights table. Immutable once
// recorded.
type FixEvent struct {
	LightID string
	FixedAt int64 // epoch milliseconds; 0 when missing or unparsable
}

// LightAction is a maintenance action from the light_actions table.
// A second, independent source of repair records: only Action == "fix"
// matters here.
type LightAction struct {
	LightID   string
	Action    string
	CreatedAt int64 // epoch milliseconds
}

// Report is a citizen-submitted incident record against a light.
// Append-only; meaningful only relative to the light's last repair time.
type Report struct {
	ID        string
	LightID   string
	Type      string
	CreatedAt int64 // epoch milliseconds
}
