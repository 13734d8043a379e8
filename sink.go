// Copyright (c) Facebook, Inc. and its affiliates. All Rights Reserved

package polyld

// Sink receives kept sites in input order.  The site and its buffers are
// owned by the window and are only valid for the duration of the call.
type Sink interface {
	Emit(s *Site) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(s *Site) error

// Emit calls f(s).
func (f SinkFunc) Emit(s *Site) error {
	return f(s)
}

var _ Sink = SinkFunc(nil)
