package sanitize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// MaxListEntries caps tags and feature flags
const MaxListEntries = 10

// HashValue returns the hex SHA-256 digest of salt and value joined by ":".
// Identical (value, salt) pairs always yield the same digest.
func HashValue(value, salt string) string {
	sum := sha256.Sum256([]byte(salt + ":" + value))
	return hex.EncodeToString(sum[:])
}

// MaskWalletAddress keeps the first and last four characters of an address
func MaskWalletAddress(address string) string {
	runes := []rune(address)
	if len(runes) <= 8 {
		return "****"
	}
	return string(runes[:4]) + "***" + string(runes[len(runes)-4:])
}

// StripURLNoise drops the query string, fragment and credentials from an
// absolute URL, keeping origin and path. Anything that does not parse as an
// absolute URL is returned unchanged.
func StripURLNoise(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path
}

// ExtractLanguage returns the first entry of an Accept-Language header
func ExtractLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}

// RoundDecimal rounds to 8 decimal places
func RoundDecimal(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 8, 64), 64)
	if err != nil {
		return v
	}
	return rounded
}

// NormalizeList accepts an array or a comma/whitespace separated string and
// returns trimmed, non-empty entries in order, capped at MaxListEntries.
func NormalizeList(value any) []string {
	var candidates []string

	switch v := value.(type) {
	case string:
		candidates = strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
	case []string:
		candidates = v
	case []any:
		for _, item := range v {
			if text, ok := asText(item); ok {
				candidates = append(candidates, text)
			}
		}
	default:
		return nil
	}

	out := make([]string, 0, MaxListEntries)
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) == MaxListEntries {
			break
		}
	}
	return out
}

// asText converts scalar detail values to their string form
func asText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// asNumber coerces a detail value to a finite float
func asNumber(value any) (float64, bool) {
	var f float64

	switch v := value.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
