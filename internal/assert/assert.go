// Package assert provide minimal test assertions.
package assert

//
// assert.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func check(tb testing.TB, ok bool, format string, args ...any) bool {
	tb.Helper()

	if !ok {
		tb.Errorf(format, args...)
	}

	return ok
}

// Equal check got == want; types with Equal method (time.Time) are compared with it.
func Equal[T any](tb testing.TB, got, want T) bool {
	tb.Helper()

	return check(tb, same(got, want), "got: %#v; want: %#v", got, want)
}

func NotEqual[T any](tb testing.TB, got, want T) bool {
	tb.Helper()

	return check(tb, !same(got, want), "got: %#v; want any other value", got)
}

// EqualSorted compare slices ignoring order of elements.
func EqualSorted[S ~[]E, E cmp.Ordered](tb testing.TB, got, want S) bool {
	tb.Helper()

	g, w := slices.Sorted(slices.Values(got)), slices.Sorted(slices.Values(want))

	return check(tb, slices.Equal(g, w), "got: %#v; want (any order): %#v", got, want)
}

func True(tb testing.TB, got bool) bool {
	tb.Helper()

	return check(tb, got, "got: false; want: true")
}

func NoErr(tb testing.TB, got error) bool {
	tb.Helper()

	return check(tb, got == nil, "unexpected error: %+v", got)
}

func Err(tb testing.TB, got error) bool {
	tb.Helper()

	return check(tb, got != nil, "got: <nil>; want: error")
}

// ErrSpec check that got match want: substring of message (string),
// error in chain (error) or type in chain (reflect.Type).
func ErrSpec(tb testing.TB, got error, want any) bool {
	tb.Helper()

	if got == nil {
		return check(tb, false, "got: <nil>; want error matching %v", want)
	}

	var ok bool

	switch w := want.(type) {
	case string:
		ok = strings.Contains(got.Error(), w)
	case error:
		ok = errors.Is(got, w)
	case reflect.Type:
		ok = errors.As(got, reflect.New(w).Interface())
	default:
		panic(fmt.Sprintf("assert.ErrSpec: unsupported want %T", want))
	}

	return check(tb, ok, "got: %T(%v); want matching: %v", got, got, want)
}

func Contains(tb testing.TB, got, want string) bool {
	tb.Helper()

	return check(tb, strings.Contains(got, want), "got: %q; want substring: %q", got, want)
}

func NotContains(tb testing.TB, got, unwanted string) bool {
	tb.Helper()

	return check(tb, !strings.Contains(got, unwanted), "got: %q; unwanted substring: %q", got, unwanted)
}

func same[T any](a, b T) bool {
	if nilish(a) || nilish(b) {
		return nilish(a) && nilish(b)
	}

	switch av := any(a).(type) {
	case interface{ Equal(T) bool }:
		return av.Equal(b)
	case []byte:
		bv, _ := any(b).([]byte)

		return bytes.Equal(av, bv)
	}

	return reflect.DeepEqual(a, b)
}

func nilish(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
