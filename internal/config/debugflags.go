package config

//
// debugflags.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"slices"
	"strings"
)

type DebugFlag string

const (
	// DebugMsgBody enable logging request and response body and headers.
	DebugMsgBody = DebugFlag("logbody")
	// DebugDo enable logging samber/do and /debug/do endpoint.
	DebugDo = DebugFlag("do")
	// DebugGo enable /debug/pprof endpoint.
	DebugGo = DebugFlag("go")
	// DebugRouter show defined routes.
	DebugRouter = DebugFlag("router")
	// DebugDBQueryMetrics enable metrics for query metrics.
	DebugDBQueryMetrics = DebugFlag("querymetrics")

	// DebugAll enable all debug flags.
	DebugAll = DebugFlag("all")
)

type DebugFlags []string

func NewDebugFLags(flags string) DebugFlags {
	var df DebugFlags

	for f := range strings.SplitSeq(flags, ",") {
		if f = strings.TrimSpace(f); f != "" {
			df = append(df, f)
		}
	}

	return df
}

func (d DebugFlags) HasFlag(flag DebugFlag) bool {
	return slices.Contains(d, string(DebugAll)) || slices.Contains(d, string(flag))
}
