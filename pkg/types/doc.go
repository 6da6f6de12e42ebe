// Package types defines the core types shared across sharedpkg.
//
// It contains the package descriptor handed to the installers by the host
// package manager, the ledger and installer contracts the host consumes or
// provides, the filesystem abstraction, and the Installation sum type that
// records which strategy placed a package in a project.
package types
