// Package paths provides centralized path handling for sharedpkg.
//
// It resolves default locations following the XDG Base Directory
// specification, expands and absolutizes configured directories, and
// computes the two locations every shared package occupies:
//
//	<storeDir>/<name>/<version>   materialized contents
//	<vendorDir>/<name>            link into the store
//
// Package names and versions become path segments, so both are validated
// here before any path is built from them.
package paths
