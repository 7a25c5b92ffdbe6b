package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Run state at window end
	FoodCount int     `csv:"food"`
	Score     float64 `csv:"score"`
	HeadX     float64 `csv:"head_x"`
	HeadY     float64 `csv:"head_y"`

	// Events during window
	FoodsSpawned  int     `csv:"foods_spawned"`
	FoodsConsumed int     `csv:"foods_consumed"`
	AmountEaten   float64 `csv:"amount_eaten"`
	Corrections   int     `csv:"corrections"` // containment corrections of the head
	SelfBites     int     `csv:"self_bites"`

	// Movement
	Distance  float64 `csv:"distance"`
	MeanSpeed float64 `csv:"mean_speed"`

	// Chain link lengths (sampled at window end)
	LinkMean float64 `csv:"link_mean"`
	LinkP10  float64 `csv:"link_p10"`
	LinkP50  float64 `csv:"link_p50"`
	LinkP90  float64 `csv:"link_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeLinkStats calculates mean and percentiles of chain link lengths.
func ComputeLinkStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("food", s.FoodCount),
		slog.Float64("score", s.Score),
		slog.Int("foods_spawned", s.FoodsSpawned),
		slog.Int("foods_consumed", s.FoodsConsumed),
		slog.Float64("amount_eaten", s.AmountEaten),
		slog.Int("corrections", s.Corrections),
		slog.Int("self_bites", s.SelfBites),
		slog.Float64("distance", s.Distance),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("link_mean", s.LinkMean),
		slog.Float64("link_p90", s.LinkP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"food", s.FoodCount,
		"score", s.Score,
		"head_x", s.HeadX,
		"head_y", s.HeadY,
		"foods_spawned", s.FoodsSpawned,
		"foods_consumed", s.FoodsConsumed,
		"amount_eaten", s.AmountEaten,
		"corrections", s.Corrections,
		"self_bites", s.SelfBites,
		"distance", s.Distance,
		"mean_speed", s.MeanSpeed,
		"link_mean", s.LinkMean,
		"link_p10", s.LinkP10,
		"link_p50", s.LinkP50,
		"link_p90", s.LinkP90,
	)
}
