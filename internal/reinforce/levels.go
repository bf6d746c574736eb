package reinforce

// DefaultLevels is the shipped training progression: quiet targets grow
// while the reward schedule thins from continuous to variable-ratio.
func DefaultLevels() []LevelConfig {
	return []LevelConfig{
		{QuietMs: 10000, DispenseMs: 1500, Pattern: []byte{1, 1, 1, 1}},
		{QuietMs: 20000, DispenseMs: 1500, Pattern: []byte{1, 1, 1, 0}},
		{QuietMs: 40000, DispenseMs: 1200, Pattern: []byte{1, 1, 0, 1, 0}},
		{QuietMs: 60000, DispenseMs: 1200, Pattern: []byte{1, 0, 1, 0, 0}, ShuffleEachCycle: true},
		{QuietMs: 120000, DispenseMs: 1000, Pattern: []byte{1, 0, 0, 1, 0, 0}, ShuffleEachCycle: true},
	}
}
