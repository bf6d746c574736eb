// Package reinforce schedules quiet-duration rewards across difficulty
// levels. The dog earns a dispense by staying quiet for the current level's
// target; repeated successes advance the level, barks reset the streak and
// may demote. Progress survives restarts through a throttled store.
package reinforce

import (
	"fmt"
	"math/rand"

	"github.com/haiml123/dog-app/internal/store"
)

// LevelConfig describes one difficulty level.
type LevelConfig struct {
	// QuietMs is how long the dog must stay quiet to succeed.
	QuietMs uint32

	// DispenseMs is how long to run the feeder when a success is rewarded.
	DispenseMs uint32

	// Pattern is a punch-card reward schedule, e.g. {1,1,1,1} rewards every
	// success, {1,0,1,0} every other. Empty rewards always.
	Pattern []byte

	// ShuffleEachCycle restarts the pattern at a random index once it is
	// consumed. Used for variable-ratio schedules.
	ShuffleEachCycle bool
}

// Persisted state keys.
const (
	keyLevel     = "lvl"
	keySuccesses = "succ"
	keyPattern   = "pidx"
)

// saveIntervalMs throttles flash writes: routine saves happen at most once
// per interval.
const saveIntervalMs uint32 = 10000

// Options tunes a Manager. Zero values select the shipped defaults.
type Options struct {
	// SuccessesToAdvance is the quiet-success streak that levels up.
	// Defaults to 4.
	SuccessesToAdvance int

	// DispenseCooldownMs is the minimum gap between rewards. Defaults to
	// 7000.
	DispenseCooldownMs uint32

	// DemotionLevels is how many levels a bark drops. 0 disables demotion.
	DemotionLevels int

	// Rand supplies the shuffle source. Defaults to the global source.
	Rand *rand.Rand
}

// Manager tracks quiet streaks and decides when to dispense. Not safe for
// concurrent use; call it from the control loop only.
type Manager struct {
	st     store.Store
	levels []LevelConfig

	needSuccesses  int
	cooldownMs     uint32
	demotionLevels int
	rng            *rand.Rand

	level            int
	successesAtLevel int
	patternIndex     int

	quietStartMs      uint32
	lastBarkMs        uint32
	lastRewardMs      uint32
	cooldownArmed     bool
	pendingDispenseMs uint32
	lastSaveMs        uint32
	saveArmed         bool
	saveErr           error
}

// NewManager creates a Manager over the given level table. levels must not
// be empty.
func NewManager(st store.Store, levels []LevelConfig, opts Options) *Manager {
	if opts.SuccessesToAdvance <= 0 {
		opts.SuccessesToAdvance = 4
	}
	if opts.DispenseCooldownMs == 0 {
		opts.DispenseCooldownMs = 7000
	}
	return &Manager{
		st:             st,
		levels:         levels,
		needSuccesses:  opts.SuccessesToAdvance,
		cooldownMs:     opts.DispenseCooldownMs,
		demotionLevels: opts.DemotionLevels,
		rng:            opts.Rand,
	}
}

// Begin loads persisted progress and starts the quiet timer at nowMs.
func (m *Manager) Begin(nowMs uint32) error {
	lvl, _, err := m.st.GetUint8(keyLevel)
	if err != nil {
		return fmt.Errorf("load level: %w", err)
	}
	succ, _, err := m.st.GetUint8(keySuccesses)
	if err != nil {
		return fmt.Errorf("load successes: %w", err)
	}
	pidx, _, err := m.st.GetUint8(keyPattern)
	if err != nil {
		return fmt.Errorf("load pattern index: %w", err)
	}

	m.level = int(lvl)
	if m.level >= len(m.levels) {
		m.level = 0
	}
	m.successesAtLevel = int(succ)
	m.patternIndex = int(pidx)
	if p := m.levels[m.level].Pattern; len(p) > 0 && m.patternIndex >= len(p) {
		m.patternIndex = 0
	}

	m.quietStartMs = nowMs
	m.lastBarkMs = nowMs
	m.cooldownArmed = false
	m.pendingDispenseMs = 0
	m.saveArmed = false
	return nil
}

// OnBark resets the quiet streak and, when configured, demotes the level.
func (m *Manager) OnBark(nowMs uint32) {
	m.lastBarkMs = nowMs
	m.successesAtLevel = 0
	m.quietStartMs = nowMs
	m.pendingDispenseMs = 0

	if m.demotionLevels > 0 && m.level > 0 {
		old := m.level
		m.level -= m.demotionLevels
		if m.level < 0 {
			m.level = 0
		}
		if m.level != old {
			m.patternIndex = 0
		}
	}

	m.saveThrottled(nowMs)
}

// Tick advances the scheduler; call it once per control-loop iteration.
// It returns true when this call decided a dispense — fetch the run time
// with ConsumePendingDispenseMs.
func (m *Manager) Tick(nowMs uint32) bool {
	if m.pendingDispenseMs > 0 {
		return false
	}

	lc := m.levels[m.level]
	if nowMs-m.quietStartMs < lc.QuietMs {
		return false
	}

	reward := m.decideReinforcement(lc)
	m.successesAtLevel++

	if reward && m.cooldownOver(nowMs) {
		m.pendingDispenseMs = lc.DispenseMs
		m.lastRewardMs = nowMs
		m.cooldownArmed = true
	}

	m.quietStartMs = nowMs

	if m.successesAtLevel >= m.needSuccesses {
		if m.level+1 < len(m.levels) {
			m.level++
		}
		m.successesAtLevel = 0
	}

	m.saveThrottled(nowMs)
	return m.pendingDispenseMs > 0
}

// ConsumePendingDispenseMs fetches and clears a decided dispense run time.
// Returns 0 when nothing is pending.
func (m *Manager) ConsumePendingDispenseMs() uint32 {
	ms := m.pendingDispenseMs
	m.pendingDispenseMs = 0
	return ms
}

// SetLevel forces the current level and saves immediately.
func (m *Manager) SetLevel(lvl int, nowMs uint32) error {
	if lvl < 0 || lvl >= len(m.levels) {
		return fmt.Errorf("level %d out of range [0,%d)", lvl, len(m.levels))
	}
	m.level = lvl
	m.successesAtLevel = 0
	m.patternIndex = 0
	m.quietStartMs = nowMs
	return m.saveNow(nowMs)
}

// ResetState returns to level 0 with no progress and saves immediately.
func (m *Manager) ResetState(nowMs uint32) error {
	m.level = 0
	m.successesAtLevel = 0
	m.patternIndex = 0
	m.quietStartMs = nowMs
	m.lastBarkMs = nowMs
	m.cooldownArmed = false
	m.pendingDispenseMs = 0
	m.saveArmed = false
	return m.saveNow(nowMs)
}

// Flush persists current progress immediately, bypassing the throttle.
// Called on shutdown.
func (m *Manager) Flush(nowMs uint32) error {
	return m.saveNow(nowMs)
}

// Level returns the current difficulty level.
func (m *Manager) Level() int { return m.level }

// SuccessesAtLevel returns the quiet-success streak at the current level.
func (m *Manager) SuccessesAtLevel() int { return m.successesAtLevel }

// CurrentQuietTargetMs returns the quiet duration the dog must reach.
func (m *Manager) CurrentQuietTargetMs() uint32 { return m.levels[m.level].QuietMs }

// LastBarkMs returns when the last bark was reported.
func (m *Manager) LastBarkMs() uint32 { return m.lastBarkMs }

// LastSaveError returns the most recent store failure from a throttled save,
// or nil. Saves are best-effort; callers may log this periodically.
func (m *Manager) LastSaveError() error { return m.saveErr }

// decideReinforcement consumes one pattern slot and reports whether this
// success earns a reward.
func (m *Manager) decideReinforcement(lc LevelConfig) bool {
	if len(lc.Pattern) == 0 {
		return true
	}

	v := lc.Pattern[m.patternIndex]
	m.patternIndex++
	if m.patternIndex >= len(lc.Pattern) {
		m.patternIndex = 0
		if lc.ShuffleEachCycle {
			m.patternIndex = m.intn(len(lc.Pattern))
		}
	}
	return v != 0
}

func (m *Manager) intn(n int) int {
	if m.rng != nil {
		return m.rng.Intn(n)
	}
	return rand.Intn(n)
}

func (m *Manager) cooldownOver(nowMs uint32) bool {
	return !m.cooldownArmed || nowMs-m.lastRewardMs >= m.cooldownMs
}

func (m *Manager) saveNow(nowMs uint32) error {
	m.lastSaveMs = nowMs
	m.saveArmed = true

	if err := m.st.PutUint8(keyLevel, uint8(m.level)); err != nil {
		return fmt.Errorf("save level: %w", err)
	}
	if err := m.st.PutUint8(keySuccesses, uint8(m.successesAtLevel)); err != nil {
		return fmt.Errorf("save successes: %w", err)
	}
	if err := m.st.PutUint8(keyPattern, uint8(m.patternIndex)); err != nil {
		return fmt.Errorf("save pattern index: %w", err)
	}
	return nil
}

func (m *Manager) saveThrottled(nowMs uint32) {
	if m.saveArmed && nowMs-m.lastSaveMs < saveIntervalMs {
		return
	}
	m.saveErr = m.saveNow(nowMs)
}
