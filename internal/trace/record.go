package trace

import (
	"time"

	"github.com/google/uuid"

	"github.com/roach88/riposte/internal/combat"
	"github.com/roach88/riposte/internal/resolver"
	"github.com/roach88/riposte/internal/state"
)

// DefaultResolutionCapacity bounds the resolution ring. At hundreds of
// resolutions per second this holds roughly the last ten seconds.
const DefaultResolutionCapacity = 4096

// DefaultTickCapacity bounds the retained ticks.
const DefaultTickCapacity = 1024

// Candidate is one recorded selection-cache slot.
type Candidate struct {
	ID    combat.EntityID
	HP    float64
	Flags combat.EntityFlags
}

// Tick is everything the engine was fed for one frame.
type Tick struct {
	Frame      combat.FrameStamp
	Snapshot   state.Snapshot
	Effects    [combat.EffectKindCount]map[combat.EffectID]float64
	Candidates []Candidate
	HardTarget combat.EntityID
	HardValid  bool
	HasHard    bool
}

// Resolution is one recorded resolve call.
type Resolution struct {
	Frame    combat.FrameStamp
	Input    combat.ActionID
	Resolved combat.ActionID
	Source   resolver.Source
}

// Run is a recorded session: a time-sortable token plus the retained
// ticks and resolutions in order.
type Run struct {
	ID          string
	CreatedAt   time.Time
	Ticks       []Tick
	Resolutions []Resolution
}

// Recorder implements resolver.Observer with bounded buffers.
//
// Tick-side observations run once per tick and may allocate; the
// resolution observation runs on the resolve hot path and writes into a
// preallocated ring. When either buffer fills, the oldest entries are
// dropped silently; a trace is a window, not an archive.
type Recorder struct {
	clock state.Clock

	ticks     []Tick
	tickHead  int
	tickCount int

	resolutions []Resolution
	resHead     int
	resCount    int
}

// NewRecorder creates a recorder with the default capacities.
func NewRecorder(clock state.Clock) *Recorder {
	return &Recorder{
		clock:       clock,
		ticks:       make([]Tick, DefaultTickCapacity),
		resolutions: make([]Resolution, DefaultResolutionCapacity),
	}
}

// ObserveTick records the frame's snapshot, starting a new tick entry.
func (r *Recorder) ObserveTick(frame combat.FrameStamp, snap *state.Snapshot) {
	slot := (r.tickHead + r.tickCount) % len(r.ticks)
	if r.tickCount == len(r.ticks) {
		r.tickHead = (r.tickHead + 1) % len(r.ticks)
	} else {
		r.tickCount++
	}
	r.ticks[slot] = Tick{Frame: frame, Snapshot: *snap}
}

// ObserveEffects attaches one kind's observed feed to the current tick.
func (r *Recorder) ObserveEffects(frame combat.FrameStamp, kind combat.EffectKind, observed map[combat.EffectID]float64) {
	t := r.currentTick(frame)
	if t == nil || kind >= combat.EffectKindCount {
		return
	}
	if t.Effects[kind] == nil {
		t.Effects[kind] = make(map[combat.EffectID]float64, len(observed))
	}
	for id, remaining := range observed {
		t.Effects[kind][id] = remaining
	}
}

// ObserveCandidates attaches the candidate feed to the current tick.
func (r *Recorder) ObserveCandidates(frame combat.FrameStamp, ids []combat.EntityID, hp []float64, flags []combat.EntityFlags, count int) {
	t := r.currentTick(frame)
	if t == nil {
		return
	}
	if count > len(ids) || count > len(hp) || count > len(flags) {
		count = min(len(ids), min(len(hp), len(flags)))
	}
	t.Candidates = t.Candidates[:0]
	for i := 0; i < count; i++ {
		t.Candidates = append(t.Candidates, Candidate{ID: ids[i], HP: hp[i], Flags: flags[i]})
	}
}

// ObserveHardTarget attaches the hard-target feed to the current tick.
func (r *Recorder) ObserveHardTarget(frame combat.FrameStamp, id combat.EntityID, valid bool) {
	t := r.currentTick(frame)
	if t == nil {
		return
	}
	t.HardTarget = id
	t.HardValid = valid
	t.HasHard = true
}

// ObserveResolution records one resolve call into the ring. No
// allocation: the ring is preallocated and entries are overwritten.
func (r *Recorder) ObserveResolution(frame combat.FrameStamp, input, resolved combat.ActionID, source resolver.Source) {
	slot := (r.resHead + r.resCount) % len(r.resolutions)
	if r.resCount == len(r.resolutions) {
		r.resHead = (r.resHead + 1) % len(r.resolutions)
	} else {
		r.resCount++
	}
	r.resolutions[slot] = Resolution{Frame: frame, Input: input, Resolved: resolved, Source: source}
}

// currentTick returns the newest tick entry when it matches frame.
func (r *Recorder) currentTick(frame combat.FrameStamp) *Tick {
	if r.tickCount == 0 {
		return nil
	}
	t := &r.ticks[(r.tickHead+r.tickCount-1)%len(r.ticks)]
	if t.Frame != frame {
		return nil
	}
	return t
}

// Snapshot copies the retained window into a Run with a fresh
// time-sortable token. Resolutions for ticks that already fell out of the
// tick window are dropped so every resolution in the run has its tick.
func (r *Recorder) Snapshot() Run {
	run := Run{
		ID:        uuid.Must(uuid.NewV7()).String(),
		CreatedAt: r.clock.Now(),
	}
	var oldestFrame combat.FrameStamp
	for i := 0; i < r.tickCount; i++ {
		t := r.ticks[(r.tickHead+i)%len(r.ticks)]
		if i == 0 {
			oldestFrame = t.Frame
		}
		run.Ticks = append(run.Ticks, t)
	}
	for i := 0; i < r.resCount; i++ {
		res := r.resolutions[(r.resHead+i)%len(r.resolutions)]
		if r.tickCount > 0 && res.Frame >= oldestFrame {
			run.Resolutions = append(run.Resolutions, res)
		}
	}
	return run
}

// Reset drops the retained window.
func (r *Recorder) Reset() {
	r.tickHead, r.tickCount = 0, 0
	r.resHead, r.resCount = 0, 0
}
