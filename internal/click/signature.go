package click

// learnedSamples is how many presses the learner needs before classification
// starts.
const learnedSamples = 3

// Signature is the adaptive pulse-count profile identifying one physical
// remote button. Bounds widen monotonically; the average is a running mean
// that keeps refining for the detector's lifetime, each new sample carrying
// less weight as SampleCount grows.
type Signature struct {
	MinPulses   int
	MaxPulses   int
	AvgPulses   int
	SampleCount int
}

// Ingest folds one burst into the profile.
func (s *Signature) Ingest(pulses int) {
	if s.SampleCount == 0 {
		s.MinPulses = pulses
		s.MaxPulses = pulses
		s.AvgPulses = pulses
		s.SampleCount = 1
		return
	}

	if pulses < s.MinPulses {
		s.MinPulses = pulses
	}
	if pulses > s.MaxPulses {
		s.MaxPulses = pulses
	}
	s.AvgPulses = (s.AvgPulses*s.SampleCount + pulses) / (s.SampleCount + 1)
	s.SampleCount++
}

// Learned reports whether enough presses have been observed to classify.
func (s *Signature) Learned() bool {
	return s.SampleCount >= learnedSamples
}

// Matches reports whether pulses falls within tolerance of the learned
// average. The floor of 30 absorbs jitter while the sample count is low;
// tolerance widens as the observed range widens.
func (s *Signature) Matches(pulses int) bool {
	if s.SampleCount == 0 {
		return false
	}

	tolerance := (s.MaxPulses - s.MinPulses) + 20
	if tolerance < 30 {
		tolerance = 30
	}

	return pulses >= s.AvgPulses-tolerance && pulses <= s.AvgPulses+tolerance
}

// Reset clears the profile back to the unlearned state.
func (s *Signature) Reset() {
	*s = Signature{}
}
