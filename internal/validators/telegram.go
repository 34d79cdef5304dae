// Package validators provide functions checking user provided values.
package validators

//
// telegram.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"regexp"
	"strings"
)

var reTelegramHandle = regexp.MustCompile(`^[A-Za-z0-9_]{5,32}$`)

// IsValidTelegramHandle check handle (without leading '@').
func IsValidTelegramHandle(handle string) bool {
	return reTelegramHandle.MatchString(handle)
}

// NormalizeTelegram trim value, strip one leading '@' and validate handle.
// Return handle in canonical "@handle" form.
func NormalizeTelegram(raw string) (string, bool) {
	handle := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if !IsValidTelegramHandle(handle) {
		return "", false
	}

	return "@" + handle, true
}
