// Package library implements the default, full-copy installer.
//
// A default package is placed as a real directory at <vendorDir>/<name>,
// owned by the project and never aliased to the store. The same
// materialization step (directory copy or archive extraction, staged next
// to the destination and renamed into place) also fills store entries for
// the shared installer. Every materialized tree carries a
// .sharedpkg-version marker recording name@version.
package library
