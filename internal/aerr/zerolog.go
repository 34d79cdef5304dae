package aerr

//
// zerolog.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"errors"

	"github.com/rs/zerolog"
)

// logObject render error chain as structured log object: messages
// (deepest first), user messages, tags, merged meta and stack.
type logObject struct {
	err error
}

func (o logObject) MarshalZerologObject(event *zerolog.Event) {
	var (
		userMsgs, tags uniqueList
		meta           map[string]any
	)

	for ae := range chain(o.err) {
		if ae.userMsg != "" {
			userMsgs.append(ae.userMsg)
		}

		tags.append(ae.tags...)

		if len(ae.meta) > 0 {
			if meta == nil {
				meta = make(map[string]any)
			}

			// outer values win
			for k, v := range ae.meta {
				if _, ok := meta[k]; !ok {
					meta[k] = v
				}
			}
		}
	}

	event.Strs("errors", messages(o.err))

	if len(userMsgs) > 0 {
		event.Strs("user_msg", userMsgs)
	}

	if len(tags) > 0 {
		event.Strs("tags", tags)
	}

	if meta != nil {
		event.Any("meta", meta)
	}

	if stack := GetStack(o.err); stack != nil {
		event.Strs("stack", stack)
	}
}

// messages return internal messages from chain, the deepest first.
func messages(err error) []string {
	var msgs []string

	for ; err != nil; err = errors.Unwrap(err) {
		if ae, ok := err.(AppError); ok { //nolint:errorlint
			if ae.msg != "" {
				msgs = append([]string{ae.msg}, msgs...)
			}
		} else {
			msgs = append([]string{err.Error()}, msgs...)
		}
	}

	return msgs
}

// ErrorMarshalFunc is used as zerolog.ErrorMarshalFunc.
func ErrorMarshalFunc(err error) any {
	if err == nil {
		return nil
	}

	return logObject{err}
}
