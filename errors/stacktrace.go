package errors

import (
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found in the error chain.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
}

// Format works like the pkg/errors formatting, except %v appends the
// location where the error was created instead of the whole trace.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s", e.Error())
			st := stackTrace(e)
			if st != nil {
				fmt.Fprintf(s, "%+v", trimInternal(st))
			}
			return
		}
		fmt.Fprintf(s, "%s", e.Error())
		if st := trimInternal(stackTrace(e)); len(st) > 0 {
			fmt.Fprintf(s, " [%s]", frameLocation(st[0]))
		}
	default:
		io.WriteString(s, e.Error())
	}
}

// trimInternal drops the frames of this package and of the runtime.
func trimInternal(st errors.StackTrace) errors.StackTrace {
	for len(st) > 0 && isInternal(st[0]) {
		st = st[1:]
	}
	for len(st) > 0 && isInternal(st[len(st)-1]) {
		st = st[:len(st)-1]
	}
	return st
}

func isInternal(f errors.Frame) bool {
	fn := runtime.FuncForPC(uintptr(f) - 1)
	if fn == nil {
		return false
	}
	name := fn.Name()
	return wrappers[name] ||
		strings.HasPrefix(name, "runtime.") ||
		strings.HasPrefix(name, "github.com/pkg/errors.")
}

var wrappers = map[string]bool{
	"github.com/iov-one/loom/errors.Wrap":          true,
	"github.com/iov-one/loom/errors.Wrapf":         true,
	"github.com/iov-one/loom/errors.(*Error).New":  true,
	"github.com/iov-one/loom/errors.(*Error).Newf": true,
	"github.com/iov-one/loom/errors.Recover":       true,
}

func frameLocation(f errors.Frame) string {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	file, line := fn.FileLine(pc)
	dir, base := path.Split(file)
	return fmt.Sprintf("%s%s:%d", path.Base(dir)+"/", base, line)
}
