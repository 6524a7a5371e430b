package game

import "log/slog"

// flushTelemetry emits a stats window once enough frames have passed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.sim.Frame()) {
		return
	}

	stats := g.collector.Flush(g.sim.Sample())
	perfStats := g.perf.Stats()
	g.lastWindow = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
