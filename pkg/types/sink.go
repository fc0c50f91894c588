package types

// EventSink receives progress and diagnostic events from the core
// components. Implementations decide how events are rendered; the core
// never writes to a global console.
type EventSink interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopSink discards all events. It is the default sink for components
// constructed without one.
type NopSink struct{}

func (NopSink) Infof(string, ...interface{})  {}
func (NopSink) Warnf(string, ...interface{})  {}
func (NopSink) Errorf(string, ...interface{}) {}
