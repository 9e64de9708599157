package token

import "strings"

// TokenFields lists the response fields that may carry the bearer token, in priority order
var TokenFields = []string{"token", "jwt", "accessToken", "id_token"}

// ExtractToken resolves the bearer token from a login response body
func ExtractToken(body map[string]interface{}) (string, bool) {
	for _, field := range TokenFields {
		if v, ok := body[field].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// NormalizeRole uppercases a role and strips any ROLE_ prefix.
// Lists yield their first element.
func NormalizeRole(raw interface{}) string {
	var s string
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		s = v
	case []string:
		if len(v) == 0 {
			return ""
		}
		s = v[0]
	case []interface{}:
		if len(v) == 0 {
			return ""
		}
		first, ok := v[0].(string)
		if !ok {
			return ""
		}
		s = first
	default:
		return ""
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.TrimPrefix(s, "ROLE_")
}
