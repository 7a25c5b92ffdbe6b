package game

import (
	"log/slog"

	"github.com/pthm-cable/minhoca/systems"
	"github.com/pthm-cable/minhoca/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	headTf := g.tfMap.Get(g.chain[0])
	stats := g.collector.Flush(g.tick, telemetry.Snapshot{
		FoodCount:   g.foodCount,
		Score:       g.score,
		HeadX:       headTf.Pos.X,
		HeadY:       headTf.Pos.Y,
		LinkLengths: g.linkLengths(),
	})
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// logGameOver reports the bite that ended the run.
func (g *Game) logGameOver(tick int32, bite systems.Bite) {
	slog.Info("game over",
		"tick", tick,
		"segment", bite.Index,
		"score", g.score,
		"food", g.foodCount,
	)
}
