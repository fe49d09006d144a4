package memheap

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
)

// Kind classifies an unrecoverable heap condition.
type Kind uint8

const (
	// Exhaustion: the bump cursor would pass the heap limit.
	Exhaustion Kind = iota + 1
	// CrossArenaRelease: the released address belongs to an enclosing arena.
	CrossArenaRelease
	// UnderflowLeave: LeaveArena was called on the root arena.
	UnderflowLeave
	// InvalidRelease: the released address is not a live chunk on the heap.
	InvalidRelease
	// Uninitialized: the process heap was used before Init.
	Uninitialized
)

func (k Kind) String() string {
	switch k {
	case Exhaustion:
		return "Exhaustion"
	case CrossArenaRelease:
		return "CrossArenaRelease"
	case UnderflowLeave:
		return "UnderflowLeave"
	case InvalidRelease:
		return "InvalidRelease"
	case Uninitialized:
		return "Uninitialized"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

var (
	ErrExhausted          = errors.New("heap exhausted")
	ErrCrossArenaRelease  = errors.New("release into an enclosing arena")
	ErrUnderflowLeave     = errors.New("leave of the root arena")
	ErrInvalidRelease     = errors.New("release of an address that is not a live chunk")
	ErrNotInitialized     = errors.New("heap not initialized")
	ErrAlreadyInitialized = errors.New("heap already initialized")
)

// FatalError describes a heap invariant violation and where the offending
// call was made from.
type FatalError struct {
	Kind Kind
	File string
	Line int
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s at %s:%d: %v", e.Kind, e.File, e.Line, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// Cause lets errors.Cause reach the sentinel.
func (e *FatalError) Cause() error { return errors.Cause(e.Err) }

// FatalHandler reports a fatal condition. The heap panics with the error once
// the handler returns, so a handler that wants the process to halt should
// exit itself.
type FatalHandler func(*FatalError)

// LogFatal returns a handler that logs the condition at error level.
func LogFatal(logger *log.Logger) FatalHandler {
	return func(e *FatalError) {
		logger.Error("heap fatal error", "kind", e.Kind, "file", e.File, "line", e.Line, "err", e.Err)
	}
}

// callerSkip reaches the caller of the public API:
// fatal <- engine method <- exported entry point <- caller.
const callerSkip = 3

func (h *Heap) fatal(kind Kind, err error) {
	fe := &FatalError{Kind: kind, Err: err}
	if _, file, line, ok := runtime.Caller(callerSkip); ok {
		fe.File, fe.Line = file, line
	}
	if h != nil && h.onFatal != nil {
		h.onFatal(fe)
	}
	panic(fe)
}
