// Package version holds the application version.
package version

// Version is the current application version.
// It is updated as part of the release process.
var Version = "1.0.0"
