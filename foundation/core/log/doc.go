// Package log provides structured logging for taxon services and tools.
//
// Package: log
// Title: Structured Logging
// Description: Leveled structured logger with immutable context (name, request
//              id, operation, fields) and JSON, text or console output. Errors
//              from the core/error package are logged with their code, severity
//              and details.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2025-12-14 v0.2.0: Trimmed to sync output, four levels, three formats
//
// Usage:
//
//	logger := log.New().
//		WithLevel(log.LevelInfo).
//		WithFormat(log.FormatJSON).
//		WithName("taxond")
//
//	logger.Info("listening", log.Field("addr", ":9090"))
//	logger.WithOperation("get_taxon_name").LogError(err)
package log
