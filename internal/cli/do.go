package cli

//
// do.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/samber/do/v2"
	"gitlab.com/kabes/softupkaran/internal/common"
	"gitlab.com/kabes/softupkaran/internal/config"
	"gitlab.com/kabes/softupkaran/internal/infra"
	"gitlab.com/kabes/softupkaran/internal/service"
	"gitlab.com/kabes/softupkaran/internal/session"
)

func createInjector(ctx context.Context, debugFlags config.DebugFlags) *do.RootScope {
	opts := &do.InjectorOpts{}

	if debugFlags.HasFlag(config.DebugDo) {
		logger := log.Ctx(ctx).With().Str(common.LogKeyModule, "do").Logger()
		opts.Logf = func(format string, args ...any) {
			logger.Debug().Msgf(format, args...)
		}
	}

	return do.NewWithOpts(opts,
		infra.Package,
		service.Package,
		session.Package,
	)
}

func shutdownInjector(ctx context.Context, injector do.Injector) {
	logger := log.Ctx(ctx)
	logger.Debug().Msg("Injector: shutdown services")

	report := injector.ShutdownWithContext(ctx)
	logger.Debug().Msgf("Injector: shutdown finished: %v", report)
}

// enableDoDebug log services provided by injector.
func enableDoDebug(ctx context.Context, injector *do.RootScope) {
	logger := log.Ctx(ctx)
	logger.Debug().Msgf("Injector: available services: %v", injector.ListProvidedServices())

	explanation := do.ExplainInjector(injector)
	logger.Debug().Msg(explanation.String())
}
