package utils

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	"github.com/stvp/rollbar"
)

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type causer interface {
	Cause() error
}

// deepestStack walks the cause chain and returns the innermost stack trace,
// that is the one closest to where the error originated.
func deepestStack(err error) errors.StackTrace {
	var st errors.StackTrace
	for err != nil {
		if t, ok := err.(stackTracer); ok {
			st = t.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return st
}

func rollbarStack(st errors.StackTrace) rollbar.Stack {
	rs := make(rollbar.Stack, len(st))
	for i, f := range st {
		// %+s is "pkg.Func\n\t/path/to/file.go"
		parts := strings.SplitN(fmt.Sprintf("%+s", f), "\n\t", 2)
		file := "unknown"
		if len(parts) == 2 {
			file = trimModulePath(parts[1])
		}
		line, _ := strconv.Atoi(fmt.Sprintf("%d", f))

		rs[i] = rollbar.Frame{
			Filename: file,
			Method:   fmt.Sprintf("%n", f),
			Line:     line,
		}
	}
	return rs
}

func trimModulePath(file string) string {
	const root = "/karchag-backend/"
	if i := strings.LastIndex(file, root); i >= 0 {
		return file[i+len(root):]
	}
	return file
}

func report(r *http.Request, err error) {
	st := deepestStack(err)
	if st != nil {
		log.Debugf("%s: %+v", err, st)
	}

	if len(rollbar.Token) == 0 {
		return
	}
	switch {
	case r != nil && st != nil:
		rollbar.RequestErrorWithStack(rollbar.ERR, r, err, rollbarStack(st))
	case r != nil:
		rollbar.RequestError(rollbar.ERR, r, err)
	case st != nil:
		rollbar.ErrorWithStack(rollbar.ERR, err, rollbarStack(st))
	default:
		rollbar.Error(rollbar.ERR, err)
	}
}

// LogRequestError reports a request scoped error to rollbar, if configured.
func LogRequestError(r *http.Request, err error) {
	report(r, err)
}

// LogError reports a background error to rollbar, if configured.
func LogError(err error) {
	report(nil, err)
}
