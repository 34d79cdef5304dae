package web

//
// package.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"github.com/samber/do/v2"
)

//nolint:gochecknoglobals
var Package = do.Package(
	do.Lazy(New),
	do.Lazy(newLoginPages),
	do.Lazy(newIndexPage),
	do.Lazy(newTemplatesI),
)
