package types

import "fmt"

// LinkMode controls how a symlink stores its target.
type LinkMode string

const (
	LinkModeRelative LinkMode = "relative"
	LinkModeAbsolute LinkMode = "absolute"
)

// ParseLinkMode validates a configured link mode.
func ParseLinkMode(s string) (LinkMode, error) {
	switch LinkMode(s) {
	case LinkModeRelative, LinkModeAbsolute:
		return LinkMode(s), nil
	default:
		return "", fmt.Errorf("invalid link mode %q (want %q or %q)", s, LinkModeRelative, LinkModeAbsolute)
	}
}

// Fallback is the strategy used when the platform cannot create symlinks.
type Fallback string

const (
	// FallbackNone makes missing symlink support a configuration error.
	FallbackNone Fallback = "none"
	// FallbackCopy places a marked copy of the target instead of a link.
	FallbackCopy Fallback = "copy"
)

// ParseFallback validates a configured fallback strategy.
func ParseFallback(s string) (Fallback, error) {
	switch Fallback(s) {
	case FallbackNone, FallbackCopy:
		return Fallback(s), nil
	default:
		return "", fmt.Errorf("invalid link fallback %q (want %q or %q)", s, FallbackNone, FallbackCopy)
	}
}
