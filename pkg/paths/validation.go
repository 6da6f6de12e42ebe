package paths

import (
	"strings"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
)

const invalidChars = ":*?\"<>|\\"

// ValidatePackageName ensures a package name is safe to join into paths.
// Names may be vendor-qualified ("acme/foo") but every segment must be a
// plain name.
func ValidatePackageName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "package name cannot be empty")
	}
	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return errors.Newf(errors.ErrInvalidInput, "package name %q cannot start or end with '/'", name).
			WithDetail(errors.DetailPackage, name)
	}
	for _, segment := range strings.Split(name, "/") {
		if err := validateSegment(segment); err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "invalid package name %q", name).
				WithDetail(errors.DetailPackage, name)
		}
	}
	return nil
}

// ValidateVersion ensures a version is usable as a single store path segment.
func ValidateVersion(version string) error {
	if err := validateSegment(version); err != nil {
		return errors.Wrapf(err, errors.ErrInvalidInput, "invalid version %q", version).
			WithDetail(errors.DetailVersion, version)
	}
	if strings.Contains(version, "/") {
		return errors.Newf(errors.ErrInvalidInput, "version %q cannot contain '/'", version).
			WithDetail(errors.DetailVersion, version)
	}
	return nil
}

func validateSegment(segment string) error {
	if segment == "" {
		return errors.New(errors.ErrInvalidInput, "empty path segment")
	}
	if segment == "." || segment == ".." {
		return errors.New(errors.ErrInvalidInput, "segment cannot be '.' or '..'")
	}
	if strings.ContainsAny(segment, invalidChars) {
		return errors.Newf(errors.ErrInvalidInput, "segment contains invalid characters: %s", invalidChars)
	}
	for _, r := range segment {
		if r < 32 {
			return errors.New(errors.ErrInvalidInput, "segment contains control characters")
		}
	}
	return nil
}
