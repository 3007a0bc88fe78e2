// Package clog wraps zombiezen.com/go/log with the compiler pipeline's own
// verbosity switch, grounded in 256lights-zb/cmd/zb/main.go's
// log.LevelFilter setup. Package compiler logs each pipeline stage (lexer,
// parser, codegen, emitter) at Debug around its call and each Compile call
// at Info; the stage packages themselves do not log. The CLI is the only
// layer that logs returned errors.
package clog

import (
	"context"
	"os"

	"zombiezen.com/go/log"
)

// SetVerbose installs the process-wide minimum log level, following the
// teacher's -v-flag-driven log.SetDefault(&log.LevelFilter{...}) pattern.
func SetVerbose(verbose bool) {
	minLevel := log.Info
	if verbose {
		minLevel = log.Debug
	}
	log.SetDefault(&log.LevelFilter{
		Min:    minLevel,
		Output: log.New(os.Stderr, "luac51: ", log.StdFlags, nil),
	})
}

func Debugf(ctx context.Context, format string, args ...interface{}) { log.Debugf(ctx, format, args...) }
func Infof(ctx context.Context, format string, args ...interface{})  { log.Infof(ctx, format, args...) }
func Warnf(ctx context.Context, format string, args ...interface{})  { log.Warnf(ctx, format, args...) }
func Errorf(ctx context.Context, format string, args ...interface{}) { log.Errorf(ctx, format, args...) }
