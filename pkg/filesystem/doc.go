// Package filesystem provides filesystem implementations for sharedpkg.
//
// This package contains the OS implementation of the types.FS interface
// and tree helpers built on top of it.
package filesystem
