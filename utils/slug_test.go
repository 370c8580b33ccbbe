package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Daraz", "daraz"},
		{"Buddha Air", "buddha-air"},
		{"Electronics & Gadgets", "electronics-gadgets"},
		{"  spaced  out  ", "spaced-out"},
		{"UPPER case 123", "upper-case-123"},
		{"---", ""},
		{"", ""},
		{"Foodmandu!", "foodmandu"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
