package logging

import (
	"log/slog"
	"strings"
)

// RedactedValue replaces the value of any attribute whose key is not
// allowlisted.
const RedactedValue = "[REDACTED]"

// Keys the vault and CLI emit on purpose. Anything else is masked by the
// handler before it reaches the sink.
var redactionAllowlist = map[string]struct{}{
	"timestamp": {},
	"severity":  {},
	"message":   {},
	"service":   {},
	"env":       {},
	"component": {},
	"vault":     {},
	"op":        {},
	"caller":    {},
	"kind":      {},
	"code":      {},
	"error":     {},
	"now":       {},
	"events":    {},
	"name":      {},
	"address":   {},
	"step":      {},
	"expect":    {},
	"addr":      {},
	"keystore":  {},
}

// IsAllowlisted reports whether key is emitted without redaction.
func IsAllowlisted(key string) bool {
	_, ok := redactionAllowlist[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

func redactAttr(attr slog.Attr) slog.Attr {
	if IsAllowlisted(attr.Key) || attr.Value.Kind() == slog.KindGroup {
		return attr
	}
	if attr.Value.Kind() == slog.KindString && strings.TrimSpace(attr.Value.String()) == "" {
		return attr
	}
	return slog.String(attr.Key, RedactedValue)
}
