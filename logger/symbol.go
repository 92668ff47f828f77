package logger

import (
	"github.com/teranos/wmsnav/sym"
	"go.uber.org/zap"
)

// Symbol-aware helpers. The glyph goes into a structured field, not the
// message, so logs stay queryable by symbol.

// SymbolInfow logs an info message on l tagged with symbol.
func SymbolInfow(l *zap.SugaredLogger, symbol, msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	fields := append([]interface{}{FieldSymbol, symbol}, keysAndValues...)
	l.Infow(msg, fields...)
}

// DBInfow logs an info message with the storage symbol (⊔)
func DBInfow(l *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	SymbolInfow(l, sym.DB, msg, keysAndValues...)
}

// OpenInfow logs an info message with the mount symbol (✿)
func OpenInfow(l *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	SymbolInfow(l, sym.Open, msg, keysAndValues...)
}

// CloseInfow logs an info message with the teardown symbol (❀)
func CloseInfow(l *zap.SugaredLogger, msg string, keysAndValues ...interface{}) {
	SymbolInfow(l, sym.Close, msg, keysAndValues...)
}
