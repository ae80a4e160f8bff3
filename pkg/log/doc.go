// Package log is a small wrapper around the standard library logger that
// gives every catalog component a named logger.
//
//   - ForService(name) returns a memoized logger whose lines carry a
//     "[name>]" prefix, e.g. "INFO [storage>] opened catalog.db"
//   - Infof, Warnf, Errorf and Debugf level helpers
//   - Debug output enabled globally (SetGlobalDebug) or per service
//     (EnableDebugFor / DisableDebugFor)
//   - SetOutput routes existing and future loggers to one writer
//   - SetRotatingFile tees output to a size rotated file (lumberjack)
//
// Usage
//
//	l := log.ForService("api")
//	l.Infof("listening on %s", addr)
//	l.Debugf("query %s", sql) // only with debug enabled for "api"
//
// The package name collides with the standard library log package. Alias
// one of them when both are needed:
//
//	import (
//		stdlog "log"
//		"github.com/rubiojr/catalog/pkg/log"
//	)
//
// All exported functions are safe for concurrent use. Tests can capture
// output by passing a bytes.Buffer to SetOutput.
package log
