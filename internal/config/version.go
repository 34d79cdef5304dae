package config

//
// version.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"runtime/debug"
	"sync"
)

// ServiceName identify service in health responses, metrics and traces.
const ServiceName = "softupkaran-backend"

// Build information; set by -ldflags "-X ...".
var (
	Version   = "dev"
	Revision  = ""
	BuildDate = ""
	BuildUser = ""
	Branch    = ""
)

// VersionString describe running binary. Development builds take revision
// from embedded vcs info.
var VersionString = sync.OnceValue(func() string {
	if Version != "dev" {
		return fmt.Sprintf("Ver: %s, Rev: %s, Build: %s by %s from %s",
			Version, Revision, BuildDate, BuildUser, Branch)
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}

	vcs := make(map[string]string, len(info.Settings))
	for _, kv := range info.Settings {
		vcs[kv.Key] = kv.Value
	}

	rev, date := vcs["vcs.revision"], vcs["vcs.time"]
	if rev == "" {
		return Version
	}

	if vcs["vcs.modified"] == "true" {
		rev += "-dirty"
	}

	return fmt.Sprintf("Rev: %s at %s", rev, date)
})
