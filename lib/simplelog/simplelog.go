// Package simplelog contains a very simple interface for logging strings at the levels
// the CLI prints.
package simplelog

import (
	"context"

	"oss.terrastruct.com/cmdlog"

	"oss.terrastruct.com/mmdgen/lib/log"
)

type Logger interface {
	Debug(string)
	Info(string)
	Success(string)
	Warn(string)
	Error(string)
}

type logger struct {
	logDebug   func(string)
	logInfo    func(string)
	logSuccess func(string)
	logWarn    func(string)
	logError   func(string)
}

func call(f func(string), s string) {
	if f != nil {
		f(s)
	}
}

func (l logger) Debug(s string)   { call(l.logDebug, s) }
func (l logger) Info(s string)    { call(l.logInfo, s) }
func (l logger) Success(s string) { call(l.logSuccess, s) }
func (l logger) Warn(s string)    { call(l.logWarn, s) }
func (l logger) Error(s string)   { call(l.logError, s) }

// Make returns a Logger from the given funcs. Nil funcs drop their level.
func Make(logDebug, logInfo, logSuccess, logWarn, logError func(string)) Logger {
	return logger{
		logDebug:   logDebug,
		logInfo:    logInfo,
		logSuccess: logSuccess,
		logWarn:    logWarn,
		logError:   logError,
	}
}

// Discard drops everything.
func Discard() Logger {
	return logger{}
}

func FromLibLog(ctx context.Context) Logger {
	return Make(
		func(s string) { log.Debug(ctx, s) },
		func(s string) { log.Info(ctx, s) },
		func(s string) { log.Info(ctx, s) },
		func(s string) { log.Warn(ctx, s) },
		func(s string) { log.Error(ctx, s) },
	)
}

func FromCmdLog(cl *cmdlog.Logger) Logger {
	return Make(
		func(s string) { cl.Debug.Print(s) },
		func(s string) { cl.Info.Print(s) },
		func(s string) { cl.Success.Print(s) },
		func(s string) { cl.Warn.Print(s) },
		func(s string) { cl.Error.Print(s) },
	)
}
