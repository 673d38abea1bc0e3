// Package orientation reconciles device-sensor headings with manual
// user camera control. The controller auto-follows live position and
// heading until the user grabs the map, and only re-follows on an
// explicit toggle.
package orientation

import (
	"math"
	"sync"
	"time"
)

// Sample is one raw device-orientation reading. Fields are pointers
// because platforms report either a direct compass heading or an alpha
// angle, or neither.
type Sample struct {
	Compass *float64 // platform compass heading, degrees
	Alpha   *float64 // rotation around the screen axis, [0, 360)
}

// Position is a raw geolocation fix.
type Position struct {
	Lat      float64
	Lng      float64
	Accuracy float64 // meters
}

// WatchOptions is the geolocation subscription tuning handed to the
// platform watcher: high-accuracy fixes no staler than a second, with a
// 10s acquisition timeout.
type WatchOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// DefaultWatchOptions returns the tuning used by the live map view.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaximumAge:   time.Second,
	}
}

// Camera is the external map surface the controller drives.
type Camera interface {
	SetHeading(deg float64)
	PanTo(lat, lng float64)
	ResetView() // heading and tilt back to 0
}

// Normalize reduces a raw sample to a heading in [0, 360). The second
// return is false when the sample carries no usable angle; such samples
// cause no state change.
func Normalize(s Sample) (float64, bool) {
	var h float64
	switch {
	case s.Compass != nil:
		h = *s.Compass
	case s.Alpha != nil:
		h = 360 - *s.Alpha
	default:
		return 0, false
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h, true
}

// Controller arbitrates between sensor-driven auto-follow and manual
// camera control. It starts in auto-follow with motion access assumed
// granted; platforms that gate motion sensors call
// RequestMotionPermission before feeding samples.
type Controller struct {
	mu       sync.Mutex
	camera   Camera
	heading  float64
	follow   bool
	granted  bool
	closed   bool
	releases []func()
}

// NewController creates a Controller driving the given camera.
func NewController(camera Camera) *Controller {
	return &Controller{camera: camera, follow: true, granted: true}
}

// HandleOrientation consumes a raw sensor sample. The stored heading
// always tracks the latest usable sample; the camera is only driven in
// auto-follow mode.
func (c *Controller) HandleOrientation(s Sample) {
	heading, ok := Normalize(s)
	if !ok {
		return
	}

	c.mu.Lock()
	if c.closed || !c.granted {
		c.mu.Unlock()
		return
	}
	c.heading = heading
	push := c.follow
	c.mu.Unlock()

	if push {
		c.camera.SetHeading(heading)
	}
}

// HandlePosition pans the camera to a new fix while auto-following.
func (c *Controller) HandlePosition(p Position) {
	c.mu.Lock()
	pan := !c.closed && c.follow
	c.mu.Unlock()

	if pan {
		c.camera.PanTo(p.Lat, p.Lng)
	}
}

// DragStarted drops out of auto-follow the instant the camera surface
// reports a user-initiated drag gesture.
func (c *Controller) DragStarted() {
	c.mu.Lock()
	c.follow = false
	c.mu.Unlock()
}

// SetFollow toggles auto-follow. Re-entry after a drag only ever
// happens here, by explicit user action.
func (c *Controller) SetFollow(on bool) {
	c.mu.Lock()
	c.follow = on
	c.mu.Unlock()
}

// Reset points the camera north with no tilt. Follow mode is untouched.
func (c *Controller) Reset() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed {
		c.camera.ResetView()
	}
}

// Heading returns the latest normalized heading in [0, 360).
func (c *Controller) Heading() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.heading
}

// Following reports whether the controller is in auto-follow mode.
func (c *Controller) Following() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.follow
}

// MotionGranted reports whether motion sensor access is available.
func (c *Controller) MotionGranted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.granted
}

// AddRelease registers a sensor subscription teardown to run on Close.
func (c *Controller) AddRelease(release func()) {
	c.mu.Lock()
	c.releases = append(c.releases, release)
	c.mu.Unlock()
}

// Close releases all sensor subscriptions and ignores any callbacks
// that arrive afterwards. Safe to call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	releases := c.releases
	c.releases = nil
	c.mu.Unlock()

	for _, release := range releases {
		release()
	}
}
