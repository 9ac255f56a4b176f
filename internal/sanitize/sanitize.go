// Package sanitize strips personally identifying data from domain event
// details before they are persisted.
//
// Identifiers are replaced with salted SHA-256 digests so that events can be
// joined on them without recovering the raw values; wallet addresses are
// masked; request metadata is reduced to coarse, non-identifying facets.
// Keys the package does not recognize pass through unchanged.
//
// Sanitization is pure and never fails: malformed input degrades to either
// the verbatim value (unparseable URLs) or an omitted field (non-numeric
// transaction values).
package sanitize

import (
	"math"
	"strings"
)

// textRule rewrites a recognized string field in place
type textRule func(string) string

var (
	trim      textRule = strings.TrimSpace
	trimLower textRule = func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	trimUpper textRule = func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
)

// textRules are the same-key normalizations
var textRules = map[Field]textRule{
	FieldWalletProvider:      trimLower,
	FieldWalletType:          trimLower,
	FieldDappID:              trim,
	FieldIntegrationPartner:  trim,
	FieldClientVersion:       trim,
	FieldProject:             trim,
	FieldDeveloperID:         trim,
	FieldChainID:             trim,
	FieldTokenSymbol:         trimUpper,
	FieldTransactionCurrency: trimUpper,
	FieldTokenAddress:        trimLower,
	FieldTransactionType:     trimLower,
	FieldGeoCountry:          trimUpper,
	FieldGeoRegion:           trim,
	FieldGeoCity:             trim,
	FieldIPASN:               trim,
	FieldUTMSource:           trimLower,
	FieldUTMMedium:           trimLower,
	FieldUTMCampaign:         trimLower,
	FieldUTMContent:          trimLower,
	FieldUTMTerm:             trimLower,
	FieldTarget:              func(s string) string { return StripURLNoise(strings.TrimSpace(s)) },
}

var numericFields = []Field{FieldTransactionValue, FieldTransactionValueUSD}

// record is the working copy of a detail map
type record struct {
	values   map[string]any
	redacted bool
}

// Sanitize returns a new record derived from detail with every identifying
// field hashed, masked, reduced or removed. detail is not modified.
func Sanitize(detail map[string]any, hashSalt, ipHashSalt string) map[string]any {
	r := &record{values: make(map[string]any, len(detail)+4)}
	for k, v := range detail {
		r.values[k] = v
	}

	r.hash(FieldOwner, FieldOwnerHash, hashSalt)
	r.hash(FieldIPAddress, FieldIPHash, ipHashSalt)
	r.maskWallet()
	r.flagSignature()
	r.userAgent(hashSalt)
	r.referer()
	r.language()

	for field, rule := range textRules {
		r.text(field, rule)
	}
	for _, field := range numericFields {
		r.number(field)
	}
	r.decimals()
	r.list(FieldTags, FieldTags)
	r.featureFlags()

	if r.redacted {
		r.values[FieldSensitiveRedacted.String()] = true
	}
	return r.values
}

// take removes field and returns its trimmed text when it is a non-empty scalar
func (r *record) take(field Field) (string, bool) {
	value, present := r.values[field.String()]
	delete(r.values, field.String())
	if !present {
		return "", false
	}

	text, ok := asText(value)
	if !ok {
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func (r *record) set(field Field, value any) {
	r.values[field.String()] = value
}

func (r *record) hash(source, target Field, salt string) {
	if value, ok := r.take(source); ok {
		r.set(target, HashValue(value, salt))
		r.redacted = true
	}
}

func (r *record) maskWallet() {
	if value, ok := r.take(FieldWalletAddress); ok {
		r.set(FieldWalletAddressMasked, MaskWalletAddress(value))
		r.redacted = true
	}
}

func (r *record) flagSignature() {
	value, present := r.values[FieldWalletSignature.String()]
	delete(r.values, FieldWalletSignature.String())
	if !present || value == nil {
		return
	}
	if text, ok := value.(string); ok && strings.TrimSpace(text) == "" {
		return
	}
	r.set(FieldWalletSignaturePresent, true)
	r.redacted = true
}

func (r *record) userAgent(salt string) {
	value, ok := r.take(FieldUserAgent)
	if !ok {
		return
	}

	info := ParseUserAgent(value)
	r.set(FieldUserAgentHash, HashValue(value, salt))
	r.set(FieldDeviceType, info.DeviceType)
	r.set(FieldOSFamily, info.OSFamily)
	r.set(FieldBrowserFamily, info.BrowserFamily)
	r.redacted = true
}

func (r *record) referer() {
	if value, ok := r.take(FieldReferer); ok {
		r.set(FieldRefererOrigin, StripURLNoise(value))
		r.redacted = true
	}
}

// language always drops accept_language; it does not count as a redaction
func (r *record) language() {
	value, ok := r.take(FieldAcceptLanguage)
	if !ok {
		return
	}
	if lang := ExtractLanguage(value); lang != "" {
		r.set(FieldUserLanguage, lang)
	}
}

// text applies rule to string-like values. Null and blank values are dropped;
// structured values are left as they are.
func (r *record) text(field Field, rule textRule) {
	value, present := r.values[field.String()]
	if !present {
		return
	}
	if value == nil {
		delete(r.values, field.String())
		return
	}

	text, ok := asText(value)
	if !ok {
		return
	}
	normalized := rule(text)
	if normalized == "" {
		delete(r.values, field.String())
		return
	}
	r.set(field, normalized)
}

func (r *record) number(field Field) {
	value, present := r.values[field.String()]
	if !present {
		return
	}
	n, ok := asNumber(value)
	if !ok {
		delete(r.values, field.String())
		return
	}
	r.set(field, RoundDecimal(n))
}

func (r *record) decimals() {
	value, present := r.values[FieldTokenDecimals.String()]
	if !present {
		return
	}
	n, ok := asNumber(value)
	if !ok || n != math.Trunc(n) {
		delete(r.values, FieldTokenDecimals.String())
		return
	}
	r.set(FieldTokenDecimals, int64(n))
}

// list normalizes source into target; empty results remove both keys
func (r *record) list(source, target Field) bool {
	value, present := r.values[source.String()]
	delete(r.values, source.String())
	if !present {
		return false
	}
	entries := NormalizeList(value)
	if len(entries) == 0 {
		return false
	}
	r.set(target, entries)
	return true
}

// featureFlags prefers feature_flags and falls back to features
func (r *record) featureFlags() {
	if r.list(FieldFeatureFlags, FieldFeatureFlags) {
		delete(r.values, FieldFeatures.String())
		return
	}
	r.list(FieldFeatures, FieldFeatureFlags)
}
