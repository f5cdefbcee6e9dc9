package zerolog

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/superx-labs/hypertrack/pkg/logger"
)

// Adapter exposes a zerolog logger through the logger.Logger interface.
type Adapter struct {
	*zerolog.Logger
}

func NewAdapter(logger *zerolog.Logger) *Adapter {
	return &Adapter{logger}
}

// GetLevel implements logger.Logger.
func (z *Adapter) GetLevel() logger.Level {
	return toLevel(z.Logger.GetLevel())
}

// SetLevel implements logger.Logger.
func (z *Adapter) SetLevel(level logger.Level) {
	zerolog.SetGlobalLevel(toZerologLevel(level))
}

// Debug implements logger.Logger.
func (z *Adapter) Debug(args ...any) {
	z.Logger.Debug().Msg(fmt.Sprint(args...))
}

// Info implements logger.Logger.
func (z *Adapter) Info(args ...any) {
	z.Logger.Info().Msg(fmt.Sprint(args...))
}

// Warn implements logger.Logger.
func (z *Adapter) Warn(args ...any) {
	z.Logger.Warn().Msg(fmt.Sprint(args...))
}

// Error implements logger.Logger.
func (z *Adapter) Error(args ...any) {
	z.Logger.Error().Msg(fmt.Sprint(args...))
}

// Fatal implements logger.Logger.
func (z *Adapter) Fatal(args ...any) {
	z.Logger.Fatal().Msg(fmt.Sprint(args...))
}

// Debugf implements logger.Logger.
func (z *Adapter) Debugf(format string, args ...any) {
	z.Logger.Debug().Msgf(format, args...)
}

// Infof implements logger.Logger.
func (z *Adapter) Infof(format string, args ...any) {
	z.Logger.Info().Msgf(format, args...)
}

// Warnf implements logger.Logger.
func (z *Adapter) Warnf(format string, args ...any) {
	z.Logger.Warn().Msgf(format, args...)
}

// Errorf implements logger.Logger.
func (z *Adapter) Errorf(format string, args ...any) {
	z.Logger.Error().Msgf(format, args...)
}

// Fatalf implements logger.Logger.
func (z *Adapter) Fatalf(format string, args ...any) {
	z.Logger.Fatal().Msgf(format, args...)
}

// WithError implements logger.Logger.
func (z *Adapter) WithError(err error) logger.Logger {
	newLogger := z.With().Err(err).Logger()
	return &Adapter{&newLogger}
}

// WithField implements logger.Logger.
func (z *Adapter) WithField(key string, value any) logger.Logger {
	newLogger := z.With().Interface(key, fmt.Sprint(value)).Logger()
	return &Adapter{&newLogger}
}

// WithFields implements logger.Logger.
func (z *Adapter) WithFields(fields map[string]any) logger.Logger {
	newLogger := z.With().Fields(fields).Logger()
	return &Adapter{&newLogger}
}

// toLevel converts zerolog.Level to logger.Level.
func toLevel(level zerolog.Level) logger.Level {
	levelMap := map[zerolog.Level]logger.Level{
		zerolog.Disabled:   logger.Disabled,
		zerolog.NoLevel:    logger.NoLevel,
		zerolog.DebugLevel: logger.DebugLevel,
		zerolog.InfoLevel:  logger.InfoLevel,
		zerolog.WarnLevel:  logger.WarnLevel,
		zerolog.ErrorLevel: logger.ErrorLevel,
		zerolog.FatalLevel: logger.FatalLevel,
	}

	if level, ok := levelMap[level]; ok {
		return level
	}

	return logger.NoLevel
}

// toZerologLevel converts logger.Level to zerolog.Level.
func toZerologLevel(level logger.Level) zerolog.Level {
	levelMap := map[logger.Level]zerolog.Level{
		logger.Disabled:   zerolog.Disabled,
		logger.NoLevel:    zerolog.NoLevel,
		logger.DebugLevel: zerolog.DebugLevel,
		logger.InfoLevel:  zerolog.InfoLevel,
		logger.WarnLevel:  zerolog.WarnLevel,
		logger.ErrorLevel: zerolog.ErrorLevel,
		logger.FatalLevel: zerolog.FatalLevel,
	}

	if level, ok := levelMap[level]; ok {
		return level
	}

	return zerolog.NoLevel
}
