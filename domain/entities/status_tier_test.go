package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		statusPoints int64
		want         StatusTier
	}{
		{
			name:         "zero points is cadet",
			statusPoints: 0,
			want:         StatusTierCadet,
		},
		{
			name:         "negative points clamp to cadet",
			statusPoints: -500,
			want:         StatusTierCadet,
		},
		{
			name:         "just below resident",
			statusPoints: 4999,
			want:         StatusTierCadet,
		},
		{
			name:         "exactly at resident threshold",
			statusPoints: 5000,
			want:         StatusTierResident,
		},
		{
			name:         "between resident and headliner",
			statusPoints: 14999,
			want:         StatusTierResident,
		},
		{
			name:         "exactly at headliner threshold",
			statusPoints: 15000,
			want:         StatusTierHeadliner,
		},
		{
			name:         "just below superfan",
			statusPoints: 39999,
			want:         StatusTierHeadliner,
		},
		{
			name:         "exactly at superfan threshold",
			statusPoints: 40000,
			want:         StatusTierSuperfan,
		},
		{
			name:         "far above superfan stays superfan",
			statusPoints: 1000000,
			want:         StatusTierSuperfan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, ComputeStatus(tt.statusPoints))
		})
	}
}

// TestComputeStatus_Monotonic verifies that gaining points never lowers a
// tier across every threshold boundary.
func TestComputeStatus_Monotonic(t *testing.T) {
	t.Parallel()

	tierRank := map[StatusTier]int{
		StatusTierCadet:     0,
		StatusTierResident:  1,
		StatusTierHeadliner: 2,
		StatusTierSuperfan:  3,
	}

	probes := []int64{0, 1, 4999, 5000, 5001, 14999, 15000, 15001, 39999, 40000, 40001, 100000}
	prev := ComputeStatus(probes[0])
	for _, pts := range probes[1:] {
		current := ComputeStatus(pts)
		assert.GreaterOrEqual(t, tierRank[current], tierRank[prev],
			"tier dropped between %d and %d points", pts-1, pts)
		prev = current
	}
}

func TestStatusTier_NextStatus(t *testing.T) {
	t.Parallel()

	next, ok := StatusTierCadet.NextStatus()
	assert.True(t, ok)
	assert.Equal(t, StatusTierResident, next)

	next, ok = StatusTierHeadliner.NextStatus()
	assert.True(t, ok)
	assert.Equal(t, StatusTierSuperfan, next)

	_, ok = StatusTierSuperfan.NextStatus()
	assert.False(t, ok)
}

func TestStatusTier_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, StatusTierCadet.IsValid())
	assert.True(t, StatusTierSuperfan.IsValid())
	assert.False(t, StatusTier("roadie").IsValid())
	assert.False(t, StatusTier("").IsValid())
}

func TestCalculateStatusProgress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		statusPoints int64
		wantCurrent  StatusTier
		wantNext     *StatusTier
		wantToNext   int64
		wantPct      float64
	}{
		{
			name:         "fresh wallet",
			statusPoints: 0,
			wantCurrent:  StatusTierCadet,
			wantNext:     tierPtr(StatusTierResident),
			wantToNext:   5000,
			wantPct:      0,
		},
		{
			name:         "halfway to resident",
			statusPoints: 2500,
			wantCurrent:  StatusTierCadet,
			wantNext:     tierPtr(StatusTierResident),
			wantToNext:   2500,
			wantPct:      50,
		},
		{
			name:         "exactly at headliner shows zero progress",
			statusPoints: 15000,
			wantCurrent:  StatusTierHeadliner,
			wantNext:     tierPtr(StatusTierSuperfan),
			wantToNext:   25000,
			wantPct:      0,
		},
		{
			name:         "one point shy of superfan stays under 100",
			statusPoints: 39999,
			wantCurrent:  StatusTierHeadliner,
			wantNext:     tierPtr(StatusTierSuperfan),
			wantToNext:   1,
			wantPct:      99.996,
		},
		{
			name:         "terminal tier reports 100 and no next",
			statusPoints: 40000,
			wantCurrent:  StatusTierSuperfan,
			wantNext:     nil,
			wantToNext:   0,
			wantPct:      100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			progress := CalculateStatusProgress(tt.statusPoints)
			assert.Equal(t, tt.wantCurrent, progress.Current)
			if tt.wantNext == nil {
				assert.Nil(t, progress.Next)
			} else {
				assert.NotNil(t, progress.Next)
				assert.Equal(t, *tt.wantNext, *progress.Next)
			}
			assert.Equal(t, tt.wantToNext, progress.PointsToNext)
			assert.InDelta(t, tt.wantPct, progress.ProgressPercentage, 0.001)
			assert.LessOrEqual(t, progress.ProgressPercentage, 100.0)
			assert.GreaterOrEqual(t, progress.ProgressPercentage, 0.0)
		})
	}
}

func tierPtr(t StatusTier) *StatusTier {
	return &t
}
