package sl

import (
	"log/slog"
	"strings"
)

// Err wraps an error into a slog attribute.
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Module tags log records with the component that produced them.
func Module(name string) slog.Attr {
	return slog.Attr{
		Key:   "module",
		Value: slog.StringValue(name),
	}
}

// Secret logs a value with everything but the first and last characters masked.
func Secret(key, value string) slog.Attr {
	masked := value
	if len(value) > 2 {
		masked = value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
	}
	return slog.Attr{
		Key:   key,
		Value: slog.StringValue(masked),
	}
}
