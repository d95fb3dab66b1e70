// Package debounce delays a call until input for the same key has been quiet
// for a fixed period, e.g. search-as-you-type:
//
//	d := debounce.New(debounce.WithDelay(300 * time.Millisecond))
//	d.Trigger(sessionID, func() { search(query) })
//
// A newer Trigger for the same key replaces the pending call.
package debounce
