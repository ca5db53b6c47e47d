package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeExt(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.JPG", ".jpg"},
		{"rally.jpeg", ".jpeg"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"trailingdot.", ""},
		{"../../etc/passwd", ""},
		{"weird.p~g", ""},
		{"clip.mp4", ".mp4"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, SafeExt(tt.in), "input %q", tt.in)
	}
}
