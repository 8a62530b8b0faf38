// Package crashdetail captures panics at phase boundaries so one crashed
// unit of work degrades into a reported failure instead of killing the run.
// A captured detail keeps the panic message, the innermost frame inside this
// module, a guess at the phase frame that actually matters, and the full
// stack for verbose output.
package crashdetail

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
)

// DefaultRelevant lists the frame-name fragments treated as "the phase that
// crashed" when guessing a relevant location.
var DefaultRelevant = []string{
	"resurface/internal/distribute.",
	"resurface/internal/rewrite.",
	"resurface/internal/unlower.",
	"resurface/internal/apply.",
}

// Detail is one captured panic.
type Detail struct {
	Msg         string
	Loc         string
	RelevantLoc string
	Stack       []byte
}

// StringShort is the one-line form used in summaries.
func (d Detail) StringShort() string {
	loc := d.RelevantLoc
	if loc == "" {
		loc = "[unknown]"
	}
	return fmt.Sprintf("%s: %s", loc, strings.TrimSpace(d.Msg))
}

// StringFull includes the captured stack.
func (d Detail) StringFull() string {
	loc := d.Loc
	if loc == "" {
		loc = "[unknown]"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "panic at %s: %s\n", loc, d.Msg)
	b.Write(d.Stack)
	return b.String()
}

// Store holds the most recent captured detail. A detail left untaken when
// the next capture arrives is stale; it is logged and replaced rather than
// kept, matching take-or-lose hand-off between capture and report.
type Store struct {
	mu       sync.Mutex
	current  *Detail
	relevant []string
	warnf    func(format string, args ...any)
}

// NewStore creates a store using DefaultRelevant frame matching. warnf
// receives discard notices; nil silences them.
func NewStore(warnf func(format string, args ...any)) *Store {
	return &Store{relevant: DefaultRelevant, warnf: warnf}
}

// SetRelevant replaces the frame-name fragments used for relevant-location
// guessing.
func (s *Store) SetRelevant(fragments ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relevant = fragments
}

// Capture records a recovered panic value and returns the built detail.
func (s *Store) Capture(v any) Detail {
	stack := make([]byte, 64<<10)
	stack = stack[:runtime.Stack(stack, false)]

	s.mu.Lock()
	defer s.mu.Unlock()

	d := Detail{
		Msg:         panicMessage(v),
		Loc:         firstModuleFrame(stack),
		RelevantLoc: relevantFrame(stack, s.relevant),
		Stack:       stack,
	}
	if s.current != nil && s.warnf != nil {
		s.warnf("discarding unreported panic detail: %s", s.current.StringShort())
	}
	s.current = &d
	return d
}

// Take returns the current detail and clears the slot.
func (s *Store) Take() (Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Detail{}, false
	}
	d := *s.current
	s.current = nil
	return d, true
}

// Run executes fn, converting a panic into a captured detail and an error.
// Non-panic errors pass through untouched.
func (s *Store) Run(fn func() error) (err error) {
	defer Recover(s, &err)
	return fn()
}

// Recover is the deferred form of Run for functions with a named error
// result:
//
//	defer crashdetail.Recover(store, &err)
func Recover(s *Store, err *error) {
	if v := recover(); v != nil {
		d := s.Capture(v)
		*err = fmt.Errorf("internal crash: %s", d.StringShort())
	}
}

func panicMessage(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case error:
		return m.Error()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// relevantFrame scans a runtime.Stack dump for the first function whose name
// contains one of the fragments, returning "name @ file:line".
func relevantFrame(stack []byte, fragments []string) string {
	lines := strings.Split(string(stack), "\n")
	for i := 0; i+1 < len(lines); i++ {
		name := lines[i]
		if strings.HasPrefix(name, "\t") || strings.HasPrefix(name, "goroutine ") {
			continue
		}
		for _, frag := range fragments {
			if strings.Contains(name, frag) {
				return fmt.Sprintf("%s @ %s", funcName(name), fileLine(lines[i+1]))
			}
		}
	}
	return ""
}

// firstModuleFrame returns the innermost frame from this module's own
// packages, skipping the capture machinery itself.
func firstModuleFrame(stack []byte) string {
	lines := strings.Split(string(stack), "\n")
	for i := 0; i+1 < len(lines); i++ {
		name := lines[i]
		if strings.HasPrefix(name, "\t") || strings.HasPrefix(name, "goroutine ") {
			continue
		}
		if !strings.Contains(name, "resurface/") {
			continue
		}
		if strings.Contains(name, "resurface/internal/crashdetail.") {
			continue
		}
		return fileLine(lines[i+1])
	}
	return ""
}

func funcName(line string) string {
	if i := strings.LastIndex(line, "("); i > 0 {
		return line[:i]
	}
	return line
}

func fileLine(line string) string {
	line = strings.TrimSpace(line)
	if i := strings.LastIndex(line, " +0x"); i > 0 {
		line = line[:i]
	}
	return line
}
