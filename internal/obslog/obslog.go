// Package obslog is the debug/trace sink used by the parser's debug option
// and by the VM's -v trace output. It wraps fortio.org/log so that the
// pipeline's intermediate forms (post-wrap expression, RPN string, compiled
// program dump) go through the same leveled, structured logger that a host
// CLI already configures for its own -v/-loglevel flags, instead of a
// bespoke io.Writer sink.
package obslog

import (
	"fortio.org/log"
)

// Sink is anything the parser/compiler/vm can report intermediate forms
// to. A nil *Sink is valid and simply discards everything, matching a
// parser/vm whose debug flag defaults off.
type Sink struct {
	enabled bool
	prefix  string
}

// New returns a Sink that logs through fortio.org/log when enabled is
// true. prefix identifies the pipeline stage (e.g. "parser", "compiler").
func New(enabled bool, prefix string) *Sink {
	return &Sink{enabled: enabled, prefix: prefix}
}

func (s *Sink) Enabled() bool { return s != nil && s.enabled }

// Debugf logs an intermediate pipeline form at debug level.
func (s *Sink) Debugf(format string, args ...interface{}) {
	if !s.Enabled() {
		return
	}
	log.Debugf("[%s] "+format, prepend(s.prefix, args)...)
}

// LogVf logs at the most verbose level; used for per-token/per-instruction
// tracing that would otherwise flood Debugf output.
func (s *Sink) LogVf(format string, args ...interface{}) {
	if !s.Enabled() {
		return
	}
	log.LogVf("[%s] "+format, prepend(s.prefix, args)...)
}

func prepend(first interface{}, rest []interface{}) []interface{} {
	out := make([]interface{}, 0, len(rest)+1)
	out = append(out, first)
	out = append(out, rest...)
	return out
}
