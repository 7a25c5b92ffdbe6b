package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	foodsSpawned  int
	foodsConsumed int
	amountEaten   float64
	corrections   int
	selfBites     int
	distance      float64
}

// NewCollector creates a new stats collector.
// windowTicks: how many fixed steps each stats window lasts (at least 1)
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int32, dt float64) *Collector {
	return &Collector{
		windowDurationTicks: max(1, windowTicks),
		dt:                  dt,
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventFoodSpawned:
		c.foodsSpawned++
	case EventFoodConsumed:
		c.foodsConsumed++
		c.amountEaten += ev.Amount
	case EventContained:
		c.corrections++
	case EventSelfBite:
		c.selfBites++
	}
}

// RecordDistance adds to the distance the head travelled this window.
func (c *Collector) RecordDistance(d float64) {
	c.distance += d
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Snapshot is the run state sampled at the end of a window.
type Snapshot struct {
	FoodCount   int
	Score       float64
	HeadX       float64
	HeadY       float64
	LinkLengths []float64 // distance between consecutive chain links
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	elapsed := float64(currentTick-c.windowStartTick) * c.dt

	var meanSpeed float64
	if elapsed > 0 {
		meanSpeed = c.distance / elapsed
	}

	linkMean, linkP10, linkP50, linkP90 := ComputeLinkStats(snap.LinkLengths)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		FoodCount: snap.FoodCount,
		Score:     snap.Score,
		HeadX:     snap.HeadX,
		HeadY:     snap.HeadY,

		FoodsSpawned:  c.foodsSpawned,
		FoodsConsumed: c.foodsConsumed,
		AmountEaten:   c.amountEaten,
		Corrections:   c.corrections,
		SelfBites:     c.selfBites,

		Distance:  c.distance,
		MeanSpeed: meanSpeed,

		LinkMean: linkMean,
		LinkP10:  linkP10,
		LinkP50:  linkP50,
		LinkP90:  linkP90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.foodsSpawned = 0
	c.foodsConsumed = 0
	c.amountEaten = 0
	c.corrections = 0
	c.selfBites = 0
	c.distance = 0

	return stats
}

// Reset discards the current window and restarts counting at tick.
func (c *Collector) Reset(tick int32) {
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     tick,
	}
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
