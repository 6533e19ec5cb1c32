// Package theme holds the toast stylesheets and the light/dark mode preference.
// Stylesheets are embedded; a file of the same name in
// ~/.config/toastd/themes/ overrides the bundled one and is hot-reloaded.
package theme
