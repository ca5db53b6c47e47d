package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHaversineMeters(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		require.Zero(t, haversineMeters(31.5204, 74.3587, 31.5204, 74.3587))
	})

	t.Run("lahore to islamabad", func(t *testing.T) {
		// Great-circle distance is roughly 270 km.
		d := haversineMeters(31.5204, 74.3587, 33.6844, 73.0479)
		require.InDelta(t, 270000, d, 8000)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := haversineMeters(30, 70, 31, 70)
		require.InDelta(t, 111195, d, 200)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := haversineMeters(31.5, 74.3, 33.7, 73.0)
		b := haversineMeters(33.7, 73.0, 31.5, 74.3)
		require.InDelta(t, a, b, 0.0001)
	})
}
