// Package dbus exposes a toast.Manager as an org.freedesktop.Notifications
// server, and provides the client used by "toastd send".
package dbus
