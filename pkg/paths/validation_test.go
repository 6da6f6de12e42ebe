package paths

import (
	"testing"

	"github.com/arthur-debert/sharedpkg/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "foo", false},
		{"vendor qualified", "acme/foo", false},
		{"dots inside", "acme/foo.bar", false},
		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"trailing slash", "acme/", true},
		{"traversal", "acme/../../etc", true},
		{"dot segment", "./foo", true},
		{"double slash", "acme//foo", true},
		{"backslash", `acme\foo`, true},
		{"control char", "foo\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateVersion(t *testing.T) {
	for _, v := range []string{"1.0.0", "v2.3.4-beta.1", "dev-master", "1.0.0+build.5"} {
		assert.NoError(t, ValidateVersion(v), v)
	}
	for _, v := range []string{"", "..", "1.0/evil", "1:0"} {
		assert.Error(t, ValidateVersion(v), v)
	}
}
