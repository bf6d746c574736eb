//go:build !linux

package rf

import "errors"

// RealSource is not available on non-Linux platforms.
type RealSource struct{}

// NewRealSource returns an error on non-Linux platforms.
func NewRealSource(pin int) (*RealSource, error) {
	return nil, errors.New("rf: not supported on this platform (requires Linux)")
}

// Fetch is not implemented on non-Linux platforms.
func (s *RealSource) Fetch() (Frame, bool) {
	return Frame{}, false
}

// Backlog is not implemented on non-Linux platforms.
func (s *RealSource) Backlog() int {
	return 0
}

// Close is not implemented on non-Linux platforms.
func (s *RealSource) Close() error {
	return nil
}
