package session

//
// token.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"crypto/rand"
	"encoding/hex"
)

const tokenBytes = 16

// NewToken return 32 hex characters generated from crypto-random bytes.
func NewToken() string {
	buf := make([]byte, tokenBytes)
	// crypto/rand.Read never return error (go 1.24+).
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}
