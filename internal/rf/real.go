//go:build linux

package rf

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// idleThreshold is the quiet gap that ends a frame. Matches the receiver
// module's inter-transmission silence, which is well above inter-pulse gaps.
const idleThreshold = 12 * time.Millisecond

// queueCapacity bounds the frame queue. Under RF flooding the oldest frames
// are dropped; the detector only cares about the most recent valid burst.
const queueCapacity = 32

// RealSource captures pulse trains from actual hardware using Linux GPIO
// character device edge events.
type RealSource struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	mu       sync.Mutex
	current  []Pulse
	lastEdge time.Duration
	lastWall time.Time
	open     bool

	frames chan Frame
}

// NewRealSource opens the receiver data pin and starts collecting edges.
func NewRealSource(pin int) (*RealSource, error) {
	s := &RealSource{
		frames: make(chan Frame, queueCapacity),
	}

	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.handleEdge))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request rx pin %d: %w", pin, err)
	}

	s.chip = chip
	s.line = line
	return s, nil
}

// handleEdge assembles edge events into frames. Runs on the gpiocdev event
// goroutine; shares state with Fetch via s.mu.
func (s *RealSource) handleEdge(evt gpiocdev.LineEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open && evt.Timestamp-s.lastEdge > idleThreshold {
		s.flushLocked()
	}

	rising := evt.Type == gpiocdev.LineEventRisingEdge
	if s.open {
		width := evt.Timestamp - s.lastEdge
		if rising {
			// falling -> rising closes the space of the last pulse
			if n := len(s.current); n > 0 {
				s.current[n-1].Space = width
			}
		} else {
			// rising -> falling closes a mark
			s.current = append(s.current, Pulse{Mark: width})
		}
	}

	s.open = true
	s.lastEdge = evt.Timestamp
	s.lastWall = time.Now()
}

// flushLocked pushes the frame under assembly onto the queue, dropping the
// oldest queued frame when full. Caller holds s.mu.
func (s *RealSource) flushLocked() {
	if len(s.current) > 0 {
		frame := Frame{Pulses: s.current}
		select {
		case s.frames <- frame:
		default:
			select {
			case <-s.frames:
			default:
			}
			select {
			case s.frames <- frame:
			default:
			}
		}
	}
	s.current = nil
	s.open = false
}

// Fetch returns the next queued frame without blocking.
func (s *RealSource) Fetch() (Frame, bool) {
	s.mu.Lock()
	// A frame with no trailing transmission never sees the edge that would
	// flush it; close it out once the line has been quiet long enough.
	if s.open && time.Since(s.lastWall) > idleThreshold {
		s.flushLocked()
	}
	s.mu.Unlock()

	select {
	case frame := <-s.frames:
		return frame, true
	default:
		return Frame{}, false
	}
}

// Backlog returns the current frame queue depth.
func (s *RealSource) Backlog() int {
	return len(s.frames)
}

// Close releases GPIO resources.
func (s *RealSource) Close() error {
	var errs []error
	if s.line != nil {
		if err := s.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rx line: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
