package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreakDayIndex(t *testing.T) {
	cases := []struct {
		streak int
		want   int
	}{
		{1, 1},
		{2, 2},
		{6, 6},
		{7, 7},
		{8, 1},
		{14, 7},
		{15, 1},
		{100, 2},
		{0, 1},
		{-3, 1},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, StreakDayIndex(tc.streak), "streak %d", tc.streak)
	}
}
