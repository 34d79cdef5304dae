package cli

//
// logging.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"fmt"
	"io"
	stdlog "log"
	"log/syslog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/journald"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/softupkaran/internal/aerr"
	"gitlab.com/kabes/softupkaran/internal/config"
)

const (
	logFormatConsole  = "console"
	logFormatLogfmt   = "logfmt"
	logFormatJSON     = "json"
	logFormatJournald = "journald"
	logFormatSyslog   = "syslog"
)

var logFormats = []string{ //nolint:gochecknoglobals
	logFormatConsole, logFormatLogfmt, logFormatJSON, logFormatJournald, logFormatSyslog,
}

// initializeLogger configure global logger; stdlib log is redirected to it.
func initializeLogger(level, format string) error {
	zerolog.ErrorMarshalFunc = aerr.ErrorMarshalFunc //nolint:reassign

	writer, err := newLogWriter(resolveLogFormat(format, outputIsConsole()))
	if err != nil {
		return err
	}

	lvl, lerr := zerolog.ParseLevel(strings.ToLower(level))
	if lerr != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	lctx := log.Output(writer).With().Timestamp()
	if lvl <= zerolog.DebugLevel {
		lctx = lctx.Caller()
	}

	log.Logger = lctx.Logger()

	if lerr != nil {
		log.Warn().Msgf("logger: unknown log level %q; using info", level)
	}

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)

	return nil
}

// resolveLogFormat return known log format; empty or unknown format is replaced
// by console when output is terminal, logfmt otherwise.
func resolveLogFormat(format string, console bool) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if slices.Contains(logFormats, format) {
		return format
	}

	if console {
		return logFormatConsole
	}

	return logFormatLogfmt
}

func newLogWriter(format string) (io.Writer, error) {
	switch format {
	case logFormatJSON:
		return os.Stderr, nil

	case logFormatSyslog:
		writer, err := syslog.New(syslog.LOG_USER|syslog.LOG_INFO, config.ServiceName)
		if err != nil {
			return nil, aerr.ApplyFor(aerr.ErrInvalidConf, err, "init syslog failed")
		}

		return zerolog.SyslogLevelWriter(writer), nil

	case logFormatJournald:
		return journald.NewJournalDWriter(), nil

	case logFormatLogfmt:
		return newLogfmtWriter(os.Stderr), nil

	default:
		console := outputIsConsole()

		tformat := time.RFC3339
		if console {
			tformat = time.TimeOnly
		}

		return zerolog.ConsoleWriter{ //nolint:exhaustruct
			Out:        os.Stderr,
			NoColor:    !console,
			TimeFormat: tformat,
		}, nil
	}
}

func outputIsConsole() bool {
	fileInfo, _ := os.Stderr.Stat()

	return fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0
}

// newLogfmtWriter create writer that output every field as key=value.
func newLogfmtWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{ //nolint:exhaustruct
		Out:             out,
		NoColor:         true,
		TimeFormat:      time.RFC3339,
		FormatLevel:     logfmtField("level", false),
		FormatTimestamp: logfmtField("ts", false),
		FormatMessage:   logfmtField("msg", true),
		FormatCaller:    logfmtField("caller", false),
		FormatErrFieldValue: func(i any) string {
			return strconv.Quote(fmt.Sprint(i))
		},
	}
}

func logfmtField(key string, alwaysQuote bool) zerolog.Formatter {
	return func(i any) string {
		if i == nil {
			return ""
		}

		val := fmt.Sprint(i)
		if alwaysQuote || strings.ContainsAny(val, " \"=") {
			val = strconv.Quote(val)
		}

		return key + "=" + val
	}
}
