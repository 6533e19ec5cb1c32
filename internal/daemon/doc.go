// Package daemon holds the glue shared by the long-running toastd surfaces:
// self-notifications about config and theme reloads.
package daemon
