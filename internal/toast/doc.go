// Package toast implements the notification manager behind toastd.
//
// A Manager owns a display surface, appends entries to it in call order,
// schedules per-entry auto-dismiss timers and retires entries through a small
// lifecycle: entering, visible, leaving, removed. Leaving entries stay on the
// surface for a grace period so the surface can play its exit animation.
//
// Nothing in this package returns an error. Dismissing an unknown or already
// retired handle is a no-op, because a notification must never take down the
// program that raised it.
package toast
