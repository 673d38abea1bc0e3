package orientation

import "context"

// Gate abstracts the platform's motion-sensor permission model. Two
// variants exist: platforms that never prompt, and platforms that
// require an explicit one-shot grant.
type Gate interface {
	// Request asks for motion sensor access and reports whether it was
	// granted.
	Request(ctx context.Context) (bool, error)
}

// DirectGrant is the gate for platforms with no permission prompt:
// access is treated as immediately granted.
type DirectGrant struct{}

func (DirectGrant) Request(context.Context) (bool, error) {
	return true, nil
}

// ExplicitRequest prompts through a platform callback and waits for the
// grant/deny outcome. A nil callback behaves as a denial.
type ExplicitRequest struct {
	Ask func(ctx context.Context) (bool, error)
}

func (g ExplicitRequest) Request(ctx context.Context) (bool, error) {
	if g.Ask == nil {
		return false, nil
	}
	return g.Ask(ctx)
}

// SelectGate picks the gate variant from a capability probe rather than
// a platform name. needsPrompt is true when the platform exposes an
// explicit permission request.
func SelectGate(needsPrompt bool, ask func(ctx context.Context) (bool, error)) Gate {
	if needsPrompt {
		return ExplicitRequest{Ask: ask}
	}
	return DirectGrant{}
}

// RequestMotionPermission runs the one-shot permission request through
// the gate. A denial or error leaves heading updates disabled but never
// propagates: orientation is a best-effort feature.
func (c *Controller) RequestMotionPermission(ctx context.Context, gate Gate) bool {
	granted, err := gate.Request(ctx)
	if err != nil {
		granted = false
	}
	c.mu.Lock()
	c.granted = granted
	c.mu.Unlock()
	return granted
}
