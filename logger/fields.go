package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across schemagen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldCategory  = "category" // output category of gated verbose logs
	FieldArtifact  = "artifact" // types, classes, serialize

	// IR
	FieldNode    = "node"
	FieldParent  = "parent"
	FieldExtend  = "extend"
	FieldDepends = "depends"
	FieldKind    = "kind"
	FieldPolicy  = "policy"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"
	FieldDir  = "dir"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"
	FieldBytes = "bytes"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
//	type Builder struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewBuilder() *Builder {
//	    return &Builder{log: logger.ComponentLogger("ir.builder")}
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
//	nodeLog := logger.ChildLogger(log, logger.FieldNode, node.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
