package tournament

import "strings"

// Resolve maps a caller-supplied identifier onto a registry key. It accepts an
// exact key, a case-insensitive tournament name, or an all-digit identifier
// that upstream understands even when the registry has never seen it.
func Resolve(registry map[string]Record, idOrName string) (string, bool) {
	key := strings.TrimSpace(idOrName)
	if key == "" {
		return "", false
	}

	if _, ok := registry[key]; ok {
		return key, true
	}

	lowered := strings.ToLower(key)
	for id, record := range registry {
		if strings.ToLower(record.Name) == lowered {
			return id, true
		}
	}

	if isAllDigits(key) {
		return key, true
	}

	return "", false
}

func isAllDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(value) > 0
}
