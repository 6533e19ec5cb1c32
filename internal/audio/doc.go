// Package audio plays a sound when a toast is shown. Each severity can map
// to its own WAV, OGG or MP3 file; decoding and output use beep.
package audio
