package errs

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
)

const (
	ErrCodeIllegalArgument string = "ILLEGAL_ARGUMENT"
)

var (
	ErrIllegalArgument *RfcErr = NewErrfCode(ErrCodeIllegalArgument, "Illegal Argument")
)

// Coded error with an optional cause and the stack captured where it was created.
//
//	Use NewErrfCode(...) to instantiate.
type RfcErr struct {
	code        string // error code.
	msg         string // error message, e.g., 'Malformed RFC3339 Timestamp'.
	internalMsg string // extra context, e.g., the offending text.
	stack       string
	err         error
}

func (e *RfcErr) Cause() error {
	return e.err
}

func (e *RfcErr) InternalMsg() string {
	return e.internalMsg
}

func (e *RfcErr) Msg() string {
	return e.msg
}

func (e *RfcErr) Code() string {
	return e.code
}

func (e *RfcErr) StackTrace() string {
	return e.stack
}

// Create new *RfcErr to wrap the cause error
//
// if cause is nil, nil is returned.
func (e *RfcErr) Wrapf(cause error, internalMsg string, args ...any) error {
	if cause == nil {
		return nil
	}
	n := e.copyNew()
	n.err = cause
	n.withStack()
	if len(args) > 0 {
		n.internalMsg = fmt.Sprintf(internalMsg, args...)
	} else {
		n.internalMsg = internalMsg
	}
	return n
}

func (e *RfcErr) copyNew() *RfcErr {
	n := new(RfcErr)
	n.code = e.code
	n.msg = e.msg
	n.internalMsg = e.internalMsg
	n.stack = e.stack
	n.err = e.err
	return n
}

func (e *RfcErr) Error() string {
	tok := []string{}
	if e.msg != "" {
		tok = append(tok, e.msg)
	}
	if e.internalMsg != "" {
		tok = append(tok, e.internalMsg)
	}
	if e.err != nil {
		tok = append(tok, e.err.Error())
	}
	return strings.Join(tok, ", ")
}

func (e *RfcErr) HasCode() bool {
	return strings.TrimSpace(e.code) != ""
}

// Implements *RfcErr Is check.
//
// Returns true, if both are *RfcErr and the code matches.
//
// Wrapf and WithInternalMsg always create new error, so a package level error can be reused:
//
//	var ErrParse = errs.NewErrfCode("MALFORMED_TIMESTAMP", ...)
//
//	var e1 = ErrParse.Wrapf(cause, ...)
//
//	errors.Is(e1, ErrParse) // true
func (e *RfcErr) Is(target error) bool {
	if tme, ok := target.(*RfcErr); ok && e.code != "" && e.code == tme.code {
		return true
	}
	return false
}

func (e *RfcErr) WithInternalMsg(msg string, args ...any) *RfcErr {
	ne := e.copyNew()
	ne.withStack()
	if len(args) > 0 {
		ne.internalMsg = fmt.Sprintf(msg, args...)
	} else {
		ne.internalMsg = msg
	}
	return ne
}

func (e *RfcErr) withStack() *RfcErr {
	e.stack = stack(3)
	return e
}

func (e *RfcErr) Unwrap() error {
	return e.err
}

// Create new *RfcErr with message and error code.
func NewErrfCode(code string, msg string, args ...any) *RfcErr {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	me := &RfcErr{msg: msg, code: code}
	me.withStack()
	return me
}

// Wrap an error to create new *RfcErr with message.
//
// If the wrapped err is nil, nil is returned.
func Wrapf(err error, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	me := &RfcErr{msg: msg, err: err}
	me.withStack()
	return me
}

func UnwrapErrStack(err error) (string, bool) {
	var stack string
	var ue error = err
	for {
		if me, ok := ue.(*RfcErr); ok && me != nil {
			stack = me.StackTrace()
		}
		u := errors.Unwrap(ue)
		if u == nil {
			break
		}
		ue = u
	}
	return stack, stack != ""
}

func ErrorStackTrace(err error) string {
	if err == nil {
		return "nil"
	}
	stackTrace, withStack := UnwrapErrStack(err)
	m := err.Error()
	if withStack {
		m += stackTrace
	}
	return m
}

var stackPool = sync.Pool{
	New: func() any {
		var v []uintptr = make([]uintptr, 50)
		return &v
	},
}

func stack(n int) string {
	stack := stackPool.Get().(*[]uintptr)
	defer func() {
		clear(*stack)
		stackPool.Put(stack)
	}()

	length := runtime.Callers(n, *stack)
	frames := runtime.CallersFrames((*stack)[:length])
	b := strings.Builder{}

	for {
		f, next := frames.Next()
		if !next {
			break
		}
		b.WriteString(fmt.Sprintf("\n\t%v\n\t\t%v:%v", f.Function, f.File, f.Line))
	}
	return b.String()
}
