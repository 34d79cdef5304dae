// Package aerr provide application error type carrying tags, user-facing
// message, metadata and call stack.
package aerr

//
// apperror.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"path"
	"runtime"
	"slices"
	"strconv"
	"strings"
)

// AppError is immutable; every With* method return modified copy.
type AppError struct {
	err     error
	tags    []string
	msg     string
	userMsg string
	meta    map[string]any
	stack   []string
}

// NewSimple create error without stack; used for predefined errors.
func NewSimple(msg string, args ...any) AppError {
	return AppError{msg: fmt.Sprintf(msg, args...)}
}

// New create error with stack.
func New(msg string, args ...any) AppError {
	return AppError{msg: fmt.Sprintf(msg, args...), stack: getStack()}
}

func Wrap(err error) AppError {
	return AppError{err: err, stack: getStack()}
}

func Wrapf(err error, msg string, args ...any) AppError {
	return AppError{err: err, msg: fmt.Sprintf(msg, args...), stack: getStack()}
}

// ApplyFor create copy of `base` wrapping `err` with current stack.
// Optional texts replace msg and then userMsg when not empty.
func ApplyFor(base AppError, err error, texts ...string) AppError {
	if err == nil {
		panic("aerr.ApplyFor: nil error")
	}

	res := base.wrapping(err, getStack())

	for idx, text := range texts {
		switch {
		case text == "":
		case idx == 0:
			res.msg = text
		case idx == 1:
			res.userMsg = text
		}
	}

	return res
}

func (a AppError) WithMsg(msg string, args ...any) AppError {
	return a.modify(func(n *AppError) { n.msg = fmt.Sprintf(msg, args...) })
}

func (a AppError) WithUserMsg(msg string, args ...any) AppError {
	return a.modify(func(n *AppError) { n.userMsg = fmt.Sprintf(msg, args...) })
}

func (a AppError) WithTag(tag string) AppError {
	if slices.Contains(a.tags, tag) {
		return a
	}

	return a.modify(func(n *AppError) { n.tags = append(n.tags, tag) })
}

// WithMeta add key-value pairs; non-string keys are formatted with %v.
func (a AppError) WithMeta(keyval ...any) AppError {
	if len(keyval)%2 != 0 {
		panic("aerr.WithMeta: odd number of arguments")
	}

	return a.modify(func(n *AppError) {
		if n.meta == nil {
			n.meta = make(map[string]any, len(keyval)/2)
		}

		for pair := range slices.Chunk(keyval, 2) {
			n.meta[fmt.Sprint(pair[0])] = pair[1]
		}
	})
}

// WithError create copy wrapping err with current stack.
func (a AppError) WithError(err error) AppError {
	return a.wrapping(err, getStack())
}

func (a AppError) wrapping(err error, stack []string) AppError {
	return a.modify(func(n *AppError) {
		n.err = err
		n.stack = stack
	})
}

func (a AppError) modify(change func(n *AppError)) AppError {
	n := a
	n.tags = slices.Clone(a.tags)
	n.meta = maps.Clone(a.meta)

	change(&n)

	return n
}

// Is match errors by messages and tags only, so copies of predefined
// errors match the original.
func (a AppError) Is(target error) bool {
	t, ok := target.(AppError)

	return ok && t.msg == a.msg && t.userMsg == a.userMsg && slices.Equal(t.tags, a.tags)
}

func (a AppError) Unwrap() error {
	return a.err
}

func (a AppError) Error() string {
	if a.msg != "" && a.err != nil {
		return a.msg + "(" + a.err.Error() + ")"
	}

	if a.msg == "" && a.err != nil {
		return a.err.Error()
	}

	return cmp.Or(a.msg, a.userMsg, "unknown error")
}

// String return message for users: user message, then internal one, then wrapped error.
func (a AppError) String() string {
	if msg := cmp.Or(a.userMsg, a.msg); msg != "" || a.err == nil {
		return msg
	}

	return a.err.Error()
}

// Format support %+v that print whole chain with tags, meta and location.
func (a AppError) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		_, _ = io.WriteString(s, strings.Join(describe(a), "\n")+"\n")
	case verb == 'v', verb == 's', verb == 'q':
		_, _ = io.WriteString(s, a.Error())
	}
}

//-------------------------------------------------------------

// chain iterate over AppErrors in err chain, the outermost first.
func chain(err error) iter.Seq[AppError] {
	return func(yield func(AppError) bool) {
		for ; err != nil; err = errors.Unwrap(err) {
			if ae, ok := err.(AppError); ok { //nolint:errorlint
				if !yield(ae) {
					return
				}
			}
		}
	}
}

func HasTag(err error, tag string) bool {
	for ae := range chain(err) {
		if slices.Contains(ae.tags, tag) {
			return true
		}
	}

	return false
}

func GetTags(err error) []string {
	var tags uniqueList

	for ae := range chain(err) {
		tags.append(ae.tags...)
	}

	return tags
}

// GetUserMessage return the outermost user message from errors chain.
func GetUserMessage(err error) string {
	for ae := range chain(err) {
		if ae.userMsg != "" {
			return ae.userMsg
		}
	}

	return ""
}

func GetUserMessageOr(err error, defaultmsg string) string {
	if msg := GetUserMessage(err); msg != "" {
		return msg
	}

	return defaultmsg
}

// GetStack return stack from the deepest error that has it.
func GetStack(err error) []string {
	var stack []string

	for ae := range chain(err) {
		if len(ae.stack) > 0 {
			stack = ae.stack
		}
	}

	return stack
}

// describe return one line per error in chain, the deepest first.
func describe(err error) []string {
	var lines []string

	for ; err != nil; err = errors.Unwrap(err) {
		ae, ok := err.(AppError) //nolint:errorlint
		if !ok {
			lines = append(lines, err.Error())

			continue
		}

		var line strings.Builder

		line.WriteString(cmp.Or(ae.msg, ae.userMsg, "-"))

		if len(ae.stack) > 0 {
			line.WriteString(" at " + ae.stack[0])
		}

		if len(ae.tags) > 0 {
			line.WriteString(" tags=" + strings.Join(ae.tags, ","))
		}

		if len(ae.meta) > 0 {
			fmt.Fprintf(&line, " meta=%v", ae.meta)
		}

		lines = append(lines, line.String())
	}

	slices.Reverse(lines)

	return lines
}

//-------------------------------------------------------------

type uniqueList []string

func (u *uniqueList) append(value ...string) {
	for _, v := range value {
		if !slices.Contains(*u, v) {
			*u = append(*u, v)
		}
	}
}

//-------------------------------------------------------------

const (
	maxStack  = 10
	skipStack = 3
)

var stackBoundaries = []string{
	"net/http.HandlerFunc.ServeHTTP",
	"runtime.goexit",
	"testing.tRunner",
}

// getStack capture caller frames as "file:line:func" skipping framework frames.
func getStack() []string {
	var pcs [32]uintptr

	n := runtime.Callers(skipStack, pcs[:])
	if n == 0 {
		return nil
	}

	stack := make([]string, 0, min(n, maxStack))

	for frame := range framesOf(pcs[:n]) {
		if slices.Contains(stackBoundaries, frame.Function) {
			continue
		}

		_, fn := path.Split(frame.Function)
		if _, after, ok := strings.Cut(fn, "."); ok {
			fn = after
		}

		stack = append(stack, frame.File+":"+strconv.Itoa(frame.Line)+":"+fn)
		if len(stack) == maxStack {
			break
		}
	}

	return stack
}

func framesOf(pcs []uintptr) iter.Seq[runtime.Frame] {
	return func(yield func(runtime.Frame) bool) {
		frames := runtime.CallersFrames(pcs)

		for {
			frame, more := frames.Next()
			if !yield(frame) || !more {
				return
			}
		}
	}
}
