// Package display renders toasts as GTK4 layer-shell popups on the Wayland
// desktop. Every widget operation is marshalled onto the GTK main loop, so
// the toast manager can drive the surface from any goroutine.
package display
