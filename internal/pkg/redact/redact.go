// redact — безопасное представление секретов и идентификаторов в логах.
package redact

import "strings"

// Email маскирует локальную часть адреса: us***@example.com.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}

// SID оставляет короткий префикс идентификатора сессии.
func SID(s string) string {
	if len(s) <= 6 {
		return "***"
	}

	return s[:6] + "***"
}

func Token() string    { return "[REDACTED_TOKEN]" }
func Password() string { return "[REDACTED_PASSWORD]" }
