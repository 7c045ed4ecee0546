package game

import (
	"time"

	"github.com/redjul/armsim/level"
	"github.com/redjul/armsim/telemetry"
)

// Step advances the simulation by dt seconds in the fixed frame order:
// pose update, grasp decision, physics integration, level evaluation.
// The level check runs after physics so it sees this frame's
// post-integration positions.
func (g *Game) Step(dt float64) level.FrameResult {
	g.perf.FrameStart()

	g.perf.Phase(telemetry.PhasePose)
	if len(g.pendingPose) > 0 {
		g.arm.SetPose(g.pendingPose)
		clear(g.pendingPose)
	}

	g.perf.Phase(telemetry.PhaseGrasp)
	g.grasp.Update(g.arm)

	g.perf.Phase(telemetry.PhasePhysics)
	pushes := g.physics.Step(dt, g.arm.Colliders())
	g.collector.RecordArmPushes(pushes)

	g.perf.Phase(telemetry.PhaseLevel)
	result := g.engine.Update()
	g.recordTransition(result)

	g.perf.Phase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.FrameEnd()
	g.frame++
	return result
}

// recordTransition forwards completed/failed edges to telemetry exactly
// once per level run.
func (g *Game) recordTransition(result level.FrameResult) {
	if result.Status == g.lastStatus {
		return
	}
	switch result.Status {
	case level.StatusCompleted:
		g.collector.RecordCompletion(result.Time)
		desc := g.engine.Current()
		if err := g.output.WriteResult(telemetry.LevelRecord{
			LevelID: desc.ID,
			Name:    desc.Name,
			Stars:   result.Stars,
			Time:    result.Time,
		}); err != nil {
			Logf("writing level result: %v", err)
		}
	case level.StatusFailed:
		g.collector.RecordFailure()
	}
	g.lastStatus = result.Status
}

func (g *Game) flushTelemetry() {
	now := time.Since(g.startedAt).Seconds()
	if !g.collector.WindowReady(now) {
		return
	}
	stats := g.collector.Flush(now)
	if g.logStats {
		stats.Log()
	}
	if err := g.output.WriteTelemetry(stats); err != nil {
		Logf("writing telemetry: %v", err)
	}
}

// UpdateHeadless advances one step with a synthetic frame time.
func (g *Game) UpdateHeadless(dt float64) level.FrameResult {
	return g.Step(dt)
}
