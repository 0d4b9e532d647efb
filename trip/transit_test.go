package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	// Tokyo to Kyoto is roughly 365 km great-circle.
	km := HaversineKm(35.6762, 139.6503, 35.0116, 135.7681)
	assert.InDelta(t, 365, km, 15)

	assert.Zero(t, HaversineKm(48.85, 2.35, 48.85, 2.35))
}

func TestHaversineEstimator_ModeSelection(t *testing.T) {
	est := DefaultEstimator()

	tests := []struct {
		name     string
		from, to Destination
		wantMode string
	}{
		{
			name:     "short hop drives",
			from:     kyoto(1),
			to:       osaka(1), // ~43 km
			wantMode: "drive",
		},
		{
			name:     "medium distance takes the train",
			from:     tokyo(1),
			to:       kyoto(1), // ~365 km
			wantMode: "train",
		},
		{
			name: "long distance flies",
			from: tokyo(1),
			to: Destination{
				Place: Place{Name: "Singapore", Lat: 1.3521, Lng: 103.8198},
			},
			wantMode: "flight",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := est.Estimate(tt.from, tt.to)
			assert.Equal(t, tt.wantMode, tr.Mode)
			assert.Equal(t, tt.to.Place.Name, tr.ToName)
			assert.Greater(t, tr.DurationMinutes, 0)
			assert.Greater(t, tr.DistanceKm, 0.0)
		})
	}
}

func TestOptimizeDay_NearestNeighbor(t *testing.T) {
	s, tr := buildTrip(t, tokyo(2))
	destID := tr.Destinations[0].ID

	// Three stops, saved in the worst order: far, near, middle. Tokyo
	// station is the implicit start point.
	far, err := s.SaveItem(tr.ID, CollectionExperiences, Item{
		Name: "far", Category: CategoryExperience, Lat: 35.71, Lng: 139.81, DestinationID: destID,
	})
	require.NoError(t, err)
	near, err := s.SaveItem(tr.ID, CollectionExperiences, Item{
		Name: "near", Category: CategoryExperience, Lat: 35.676, Lng: 139.652, DestinationID: destID,
	})
	require.NoError(t, err)
	middle, err := s.SaveItem(tr.ID, CollectionExperiences, Item{
		Name: "middle", Category: CategoryExperience, Lat: 35.69, Lng: 139.70, DestinationID: destID,
	})
	require.NoError(t, err)

	require.NoError(t, s.ScheduleItem(tr.ID, far.ID, 0, 0))
	require.NoError(t, s.ScheduleItem(tr.ID, near.ID, 0, 1))
	require.NoError(t, s.ScheduleItem(tr.ID, middle.ID, 0, 2))

	require.NoError(t, s.OptimizeDay(tr.ID, 0))

	fresh, err := s.Trip(tr.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "middle", "far"}, dayNames(fresh, 0))
}

func TestOptimizeDay_SingleItemNoOp(t *testing.T) {
	s, tr := buildTrip(t, tokyo(1))
	saveScheduled(t, s, tr.ID, CollectionExperiences, "only", 0, 0)
	before := s.JournalLen()

	require.NoError(t, s.OptimizeDay(tr.ID, 0))
	assert.Equal(t, before, s.JournalLen())
}

func TestOptimizeDay_OutOfRange(t *testing.T) {
	s, tr := buildTrip(t, tokyo(1))
	assert.ErrorIs(t, s.OptimizeDay(tr.ID, 9), ErrDayOutOfRange)
}
