package entities

// StatusTier represents a fan's standing within a club, derived from
// status points. Tiers are never stored; they are computed on read.
type StatusTier string

const (
	StatusTierCadet     StatusTier = "cadet"
	StatusTierResident  StatusTier = "resident"
	StatusTierHeadliner StatusTier = "headliner"
	StatusTierSuperfan  StatusTier = "superfan"
)

// statusTierOrder lists tiers from lowest to highest. Thresholds must be
// strictly increasing so progress math can never divide by zero.
var statusTierOrder = []StatusTier{
	StatusTierCadet,
	StatusTierResident,
	StatusTierHeadliner,
	StatusTierSuperfan,
}

var statusTierThresholds = map[StatusTier]int64{
	StatusTierCadet:     0,
	StatusTierResident:  5000,
	StatusTierHeadliner: 15000,
	StatusTierSuperfan:  40000,
}

// Threshold returns the status points required to hold this tier.
func (t StatusTier) Threshold() int64 {
	return statusTierThresholds[t]
}

// String returns the string representation of the tier.
func (t StatusTier) String() string {
	return string(t)
}

// IsValid returns true if the tier is one of the known tiers.
func (t StatusTier) IsValid() bool {
	_, ok := statusTierThresholds[t]
	return ok
}

// NextStatus returns the successor tier, or false when the tier is terminal.
func (t StatusTier) NextStatus() (StatusTier, bool) {
	for i, tier := range statusTierOrder {
		if tier == t && i+1 < len(statusTierOrder) {
			return statusTierOrder[i+1], true
		}
	}
	return "", false
}

// ComputeStatus maps status points to the highest qualifying tier.
// Negative input clamps to zero, so cadet is the floor and the function
// never fails.
func ComputeStatus(statusPoints int64) StatusTier {
	if statusPoints < 0 {
		statusPoints = 0
	}
	for i := len(statusTierOrder) - 1; i >= 0; i-- {
		tier := statusTierOrder[i]
		if statusPoints >= statusTierThresholds[tier] {
			return tier
		}
	}
	return StatusTierCadet
}

// StatusProgress describes where a wallet sits between its current tier and
// the next one.
type StatusProgress struct {
	Current            StatusTier
	Next               *StatusTier
	CurrentThreshold   int64
	NextThreshold      int64
	PointsToNext       int64
	ProgressPercentage float64
}

// CalculateStatusProgress computes tier progress for the given status
// points. At the terminal tier Next is nil and the percentage is 100.
func CalculateStatusProgress(statusPoints int64) StatusProgress {
	if statusPoints < 0 {
		statusPoints = 0
	}

	current := ComputeStatus(statusPoints)
	progress := StatusProgress{
		Current:          current,
		CurrentThreshold: current.Threshold(),
	}

	next, ok := current.NextStatus()
	if !ok {
		progress.ProgressPercentage = 100
		return progress
	}

	progress.Next = &next
	progress.NextThreshold = next.Threshold()
	progress.PointsToNext = progress.NextThreshold - statusPoints

	span := progress.NextThreshold - progress.CurrentThreshold
	pct := float64(statusPoints-progress.CurrentThreshold) / float64(span) * 100
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	progress.ProgressPercentage = pct

	return progress
}
