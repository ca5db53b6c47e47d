package services

import (
	"testing"
	"time"

	"awaam-raaj-backend/models"

	"github.com/stretchr/testify/require"
)

func TestComputeSessionPoints(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		photos   int
		distance float64
		want     int
	}{
		{name: "45 min walk, nothing else", duration: 45, photos: 0, distance: 0, want: 5},
		{name: "one hour with photos and distance", duration: 60, photos: 2, distance: 600, want: 10 + 4 + 3},
		{name: "long session hits nothing special", duration: 90, photos: 3, distance: 10000, want: 15 + 6 + 3},
		{name: "under 30 minutes earns no duration points", duration: 29, photos: 1, distance: 0, want: 2},
		{name: "exactly 30 minutes", duration: 30, photos: 0, distance: 0, want: 5},
		{name: "cap applies", duration: 240, photos: 10, distance: 5000, want: MaxSessionPoints},
		{name: "distance bonus needs strictly more than 500m", duration: 0, photos: 0, distance: 500, want: 0},
		{name: "zero session", duration: 0, photos: 0, distance: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeSessionPoints(tt.duration, tt.photos, tt.distance)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIsSuspiciousSession(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		distance float64
		want     bool
	}{
		{name: "parked for 45 minutes", duration: 45, distance: 0, want: true},
		{name: "parked just under the distance line", duration: 31, distance: 49.9, want: true},
		{name: "real canvassing walk", duration: 60, distance: 600, want: false},
		{name: "short stop is fine", duration: 30, distance: 0, want: false},
		{name: "50m exactly is not stationary", duration: 120, distance: 50, want: false},
		{name: "quick photo-op", duration: 5, distance: 10, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isSuspiciousSession(tt.duration, tt.distance))
		})
	}
}

func TestPhotoFlagReason(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	sessionStart := now.Add(-40 * time.Minute)
	startLat, startLng := 31.5204, 74.3587 // Lahore

	ptrT := func(t time.Time) *time.Time { return &t }
	ptrF := func(f float64) *float64 { return &f }

	t.Run("clean photo passes", func(t *testing.T) {
		exif := PhotoExif{
			TakenAt: ptrT(now.Add(-10 * time.Minute)),
			Lat:     ptrF(startLat + 0.001),
			Lng:     ptrF(startLng + 0.001),
		}
		require.Empty(t, photoFlagReason(now, sessionStart, startLat, startLng, exif))
	})

	t.Run("no exif passes", func(t *testing.T) {
		require.Empty(t, photoFlagReason(now, sessionStart, startLat, startLng, PhotoExif{}))
	})

	t.Run("taken before session start", func(t *testing.T) {
		exif := PhotoExif{TakenAt: ptrT(sessionStart.Add(-5 * time.Minute))}
		require.Contains(t, photoFlagReason(now, sessionStart, startLat, startLng, exif), "predates session start")
	})

	t.Run("stale timestamp overrides predate reason", func(t *testing.T) {
		// Two hours old is both before start and past the 1h age limit; the
		// age check runs later so its reason sticks.
		exif := PhotoExif{TakenAt: ptrT(now.Add(-2 * time.Hour))}
		require.Contains(t, photoFlagReason(now, sessionStart, startLat, startLng, exif), "older than 1 hour")
	})

	t.Run("distant geotag has the final say", func(t *testing.T) {
		// Stale AND ~270km away (Islamabad): the geotag check evaluates last,
		// so distance wins.
		exif := PhotoExif{
			TakenAt: ptrT(now.Add(-2 * time.Hour)),
			Lat:     ptrF(33.6844),
			Lng:     ptrF(73.0479),
		}
		require.Contains(t, photoFlagReason(now, sessionStart, startLat, startLng, exif), "km from session start")
	})

	t.Run("nearby geotag does not clear an earlier reason", func(t *testing.T) {
		exif := PhotoExif{
			TakenAt: ptrT(now.Add(-2 * time.Hour)),
			Lat:     ptrF(startLat),
			Lng:     ptrF(startLng),
		}
		require.Contains(t, photoFlagReason(now, sessionStart, startLat, startLng, exif), "older than 1 hour")
	})
}

func TestTrailDistance(t *testing.T) {
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	points := []models.CampaignGpsPoint{
		{Lat: 31.5204, Lng: 74.3587, RecordedAt: at},
		{Lat: 31.5214, Lng: 74.3587, RecordedAt: at.Add(time.Minute)},
		{Lat: 31.5224, Lng: 74.3587, RecordedAt: at.Add(2 * time.Minute)},
	}

	// Two legs of ~0.001° latitude each, about 111m per leg.
	d := trailDistance(points, nil, nil)
	require.InDelta(t, 222, d, 5)

	// End leg extends the trail.
	endLat, endLng := 31.5234, 74.3587
	dWithEnd := trailDistance(points, &endLat, &endLng)
	require.InDelta(t, 333, dWithEnd, 7)
	require.Greater(t, dWithEnd, d)
}

func TestTrailDistanceDegenerate(t *testing.T) {
	require.Zero(t, trailDistance(nil, nil, nil))

	single := []models.CampaignGpsPoint{{Lat: 31.5, Lng: 74.35}}
	require.Zero(t, trailDistance(single, nil, nil))

	// End coords with an empty trail contribute nothing.
	lat, lng := 31.6, 74.4
	require.Zero(t, trailDistance(nil, &lat, &lng))
}

func TestTrailFull(t *testing.T) {
	require.False(t, trailFull(0))
	require.False(t, trailFull(MaxTrailPoints-1))
	// At the cap no further point may be stored, not even the end-session one.
	require.True(t, trailFull(MaxTrailPoints))
	require.True(t, trailFull(MaxTrailPoints+1))
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	require.Equal(t, 45, durationMinutes(start, start.Add(45*time.Minute)))
	require.Equal(t, 30, durationMinutes(start, start.Add(29*time.Minute+40*time.Second)))
	require.Equal(t, 0, durationMinutes(start, start.Add(10*time.Second)))
}

func TestValidateCoords(t *testing.T) {
	require.NoError(t, validateCoords(31.5204, 74.3587))
	require.NoError(t, validateCoords(-90, 180))
	require.Error(t, validateCoords(91, 0))
	require.Error(t, validateCoords(0, -181))
}
