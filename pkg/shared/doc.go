// Package shared installs packages into a global, version-keyed store and
// links them into each project's vendor directory.
//
// A package version is materialized at most once under
// <store>/<name>/<version>; projects receive a link at <vendor>/<name>.
// Uninstalling removes only the link, so the store copy stays available to
// other projects and to later reinstalls.
package shared
