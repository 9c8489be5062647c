// Package logger builds structured slog loggers with environment presets and
// a small set of attribute helpers.
//
//	log := logger.New(logger.WithProduction("interviewd"))
//	log.Info("server starting", logger.Component("http"))
//
// Development preset uses text output at debug level; production uses JSON at
// info level. Attribute helpers are nil-safe: logger.Error(nil) yields an
// empty attribute.
package logger
