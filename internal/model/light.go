package model

// Light is a tracked streetlight from the official_lights table.
// The seeded dataset is immutable for this service; it is loaded once
// per session.
type Light struct {
	ID        string  // opaque stable key
	DisplayID string  // human-readable pole code (sl_id)
	Lat       float64
	Lng       float64
}
