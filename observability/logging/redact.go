package logging

import "strings"

// RedactedValue replaces sensitive field values before they reach a log
// sink.
const RedactedValue = "[REDACTED]"

var redactionAllowlist = map[string]struct{}{
	"service":   {},
	"env":       {},
	"message":   {},
	"severity":  {},
	"timestamp": {},
	"error":     {},
	"component": {},
	"agent_id":  {},
	"class_id":  {},
	"nonce_id":  {},
	"order_id":  {},
}

// IsAllowlisted reports whether key is exempt from redaction by Redact.
// Keys not on the list, such as a raw attested-payment signature or signer
// preimage, are redacted.
func IsAllowlisted(key string) bool {
	_, ok := redactionAllowlist[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

// Redact returns RedactedValue unless key is allowlisted, in which case
// value is returned unchanged.
func Redact(key, value string) string {
	if IsAllowlisted(key) {
		return value
	}
	return RedactedValue
}
