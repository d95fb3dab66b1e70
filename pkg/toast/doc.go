// Package toast manages transient on-screen notifications.
//
// A toast is appended to a single lazily created container, becomes visible
// shortly after insertion, dwells for a fixed time and then animates out and is
// removed. Several toasts may be alive at once; they stack in insertion order
// and each runs its own lifecycle independently:
//
//	appearing --enter--> visible --dwell|dismiss--> disappearing --exit--> removed
//
// The process-wide Manager is reachable through Default, and the package-level
// helpers forward to it:
//
//	toast.Notify(ctx, "Saved")
//	toast.Error(ctx, "Upload failed")
//
// Every state change is reported as an Event, both to synchronous Observers
// registered with WithObserver and to stream subscribers obtained from
// Manager.Subscribe. Events for a single toast are always delivered in
// lifecycle order.
//
// Rendering is done by View and ContainerView. Message text is escaped, so
// callers may pass untrusted input.
package toast
