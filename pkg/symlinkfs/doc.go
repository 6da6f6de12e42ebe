// Package symlinkfs manages the links between a project's vendor directory
// and the shared store.
//
// A link is the filesystem fact "project path P points at store path S";
// it is never held in memory, only checked and enforced here on demand.
// The package refuses to delete anything that is not a link it can
// recognise, so a real directory at a link location is always an error.
//
// When the platform cannot create symlinks and the copy fallback is
// configured, CreateLink places a copy of the target marked with a
// .sharedpkg-link file naming the target. IsLink, ReadLinkTarget and
// RemoveLink treat such a marked copy as a link.
package symlinkfs
