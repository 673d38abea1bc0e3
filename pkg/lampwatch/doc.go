// Package lampwatch classifies streetlight health from crowd-sourced
// incident reports and repair records.
//
// Quick start:
//
//	fixed := lampwatch.LastFixed(fixes, actions)
//	status := lampwatch.Classify(light, fixed, reports)
//	fmt.Println(status.Tier, status.Label) // reported "Light out"
//
// All functions are pure: they operate on caller-supplied event slices
// and need no network or storage. The lampwatch service wraps this same
// engine with remote fetching; embed this package when you already have
// the rows.
package lampwatch
