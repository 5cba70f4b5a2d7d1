package zerolog

import (
	"fmt"

	"github.com/manivija/tokenwatch/core"

	"github.com/rs/zerolog"
)

type Adapter struct {
	*zerolog.Logger
}

func NewAdapter(logger *zerolog.Logger) *Adapter {
	return &Adapter{logger}
}

// GetLevel implements core.Logger.
func (z *Adapter) GetLevel() core.Level {
	return toLevel(z.Logger.GetLevel())
}

// SetLevel implements core.Logger.
func (z *Adapter) SetLevel(level core.Level) {
	zerolog.SetGlobalLevel(toZerologLevel(level))
}

// Trace implements core.Logger.
func (z *Adapter) Trace(args ...any) {
	z.Logger.Trace().Msg(fmt.Sprint(args...))
}

// Tracef implements core.Logger.
func (z *Adapter) Tracef(format string, args ...any) {
	z.Logger.Trace().Msgf(format, args...)
}

// Print implements core.Logger.
func (z *Adapter) Print(args ...any) {
	z.Logger.Print(args...)
}

// Debug implements core.Logger.
func (z *Adapter) Debug(args ...any) {
	z.Logger.Debug().Msg(fmt.Sprint(args...))
}

// Fatal implements core.Logger.
func (z *Adapter) Fatal(args ...any) {
	z.Logger.Fatal().Msg(fmt.Sprint(args...))
}

// Info implements core.Logger.
func (z *Adapter) Info(args ...any) {
	z.Logger.Info().Msg(fmt.Sprint(args...))
}

// Warn implements core.Logger.
func (z *Adapter) Warn(args ...any) {
	z.Logger.Warn().Msg(fmt.Sprint(args...))
}

// Panic implements core.Logger.
func (z *Adapter) Panic(args ...any) {
	z.Logger.Panic().Msg(fmt.Sprint(args...))
}

// Infof implements core.Logger.
func (z *Adapter) Infof(format string, args ...any) {
	z.Logger.Info().Msgf(format, args...)
}

// Fatalf implements core.Logger.
func (z *Adapter) Fatalf(format string, args ...any) {
	z.Logger.Fatal().Msgf(format, args...)
}

// Debugf implements core.Logger.
func (z *Adapter) Debugf(format string, args ...any) {
	z.Logger.Debug().Msgf(format, args...)
}

// Panicf implements core.Logger.
func (z *Adapter) Panicf(format string, args ...any) {
	z.Logger.Panic().Msgf(format, args...)
}

// Printf implements core.Logger.
func (z *Adapter) Printf(format string, args ...any) {
	z.Logger.Printf(format, args...)
}

// Warnf implements core.Logger.
func (z *Adapter) Warnf(format string, args ...any) {
	z.Logger.Warn().Msgf(format, args...)
}

// Error implements core.Logger.
func (z *Adapter) Error(args ...any) {
	z.Logger.Error().Msg(fmt.Sprint(args...))
}

// Errorf implements core.Logger.
func (z *Adapter) Errorf(format string, args ...any) {
	z.Logger.Error().Msgf(format, args...)
}

// WithError implements core.Logger.
func (z *Adapter) WithError(err error) core.Logger {
	newLogger := z.With().Err(err).Logger()
	return &Adapter{&newLogger}
}

// WithField implements core.Logger.
func (z *Adapter) WithField(key string, value any) core.Logger {
	newLogger := z.With().Interface(key, fmt.Sprint(value)).Logger()
	return &Adapter{&newLogger}
}

// WithFields implements core.Logger.
func (z *Adapter) WithFields(fields map[string]any) core.Logger {
	newLogger := z.With().Fields(fields).Logger()

	return &Adapter{&newLogger}
}

// toLevel converts zerolog.Level to core.Level.
func toLevel(level zerolog.Level) core.Level {
	levelMap := map[zerolog.Level]core.Level{
		zerolog.Disabled:   core.Disabled,
		zerolog.NoLevel:    core.NoLevel,
		zerolog.TraceLevel: core.TraceLevel,
		zerolog.DebugLevel: core.DebugLevel,
		zerolog.InfoLevel:  core.InfoLevel,
		zerolog.WarnLevel:  core.WarnLevel,
		zerolog.ErrorLevel: core.ErrorLevel,
		zerolog.FatalLevel: core.FatalLevel,
		zerolog.PanicLevel: core.PanicLevel,
	}

	if level, ok := levelMap[level]; ok {
		return level
	}

	return core.NoLevel
}

// toZerologLevel converts core.Level to zerolog.Level.
func toZerologLevel(level core.Level) zerolog.Level {
	levelMap := map[core.Level]zerolog.Level{
		core.Disabled:   zerolog.Disabled,
		core.NoLevel:    zerolog.NoLevel,
		core.TraceLevel: zerolog.TraceLevel,
		core.DebugLevel: zerolog.DebugLevel,
		core.InfoLevel:  zerolog.InfoLevel,
		core.WarnLevel:  zerolog.WarnLevel,
		core.ErrorLevel: zerolog.ErrorLevel,
		core.FatalLevel: zerolog.FatalLevel,
		core.PanicLevel: zerolog.PanicLevel,
	}

	if level, ok := levelMap[level]; ok {
		return level
	}

	return zerolog.NoLevel
}
