// Package logger builds slog loggers and provides attribute helpers so log
// keys stay consistent across packages. Helpers never accept key material;
// callers log identifiers, sizes and offsets only.
package logger
