package logger

import "log/slog"

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Operation records the operation name under the key "op".
func Operation(name string) slog.Attr {
	return slog.String("op", name)
}

// Algorithm records a key or hash algorithm name under the key "alg".
func Algorithm(name any) slog.Attr {
	return slog.Any("alg", name)
}

// Recipients records a recipient count under the key "recipients".
func Recipients(n int) slog.Attr {
	return slog.Int("recipients", n)
}

// KeyID records an encoded key identifier under the key "key_id".
// Empty identifiers produce an empty Attr.
func KeyID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("key_id", id)
}

// Field records the name of a wire field under the key "field".
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Offset records a byte offset under the key "offset".
func Offset(off int) slog.Attr {
	return slog.Int("offset", off)
}

// Size records a byte count under the key "size".
func Size(n int) slog.Attr {
	return slog.Int("size", n)
}
