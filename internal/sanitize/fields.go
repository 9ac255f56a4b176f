package sanitize

// Field is a detail key the sanitizer recognizes. Keys outside this set pass
// through untouched.
type Field string

// Identity and wallet fields
const (
	FieldOwner           Field = "owner"
	FieldWalletAddress   Field = "wallet_address"
	FieldWalletSignature Field = "wallet_signature"
	FieldWalletProvider  Field = "wallet_provider"
	FieldWalletType      Field = "wallet_type"
)

// Integration fields
const (
	FieldChainID            Field = "chain_id"
	FieldDappID             Field = "dapp_id"
	FieldIntegrationPartner Field = "integration_partner"
	FieldClientVersion      Field = "client_version"
	FieldProject            Field = "project"
	FieldDeveloperID        Field = "developer_id"
)

// Token and transaction fields
const (
	FieldTokenSymbol         Field = "token_symbol"
	FieldTokenAddress        Field = "token_address"
	FieldTokenDecimals       Field = "token_decimals"
	FieldTransactionValue    Field = "transaction_value"
	FieldTransactionValueUSD Field = "transaction_value_usd"
	FieldTransactionCurrency Field = "transaction_currency"
	FieldTransactionType     Field = "transaction_type"
)

// List fields
const (
	FieldTags         Field = "tags"
	FieldFeatureFlags Field = "feature_flags"
	FieldFeatures     Field = "features"
)

// Request fields
const (
	FieldUserAgent      Field = "user_agent"
	FieldReferer        Field = "referer"
	FieldTarget         Field = "target"
	FieldIPAddress      Field = "ip_address"
	FieldAcceptLanguage Field = "accept_language"
	FieldGeoCountry     Field = "geo_country"
	FieldGeoRegion      Field = "geo_region"
	FieldGeoCity        Field = "geo_city"
	FieldIPASN          Field = "ip_asn"
)

// Campaign fields
const (
	FieldUTMSource   Field = "utm_source"
	FieldUTMMedium   Field = "utm_medium"
	FieldUTMCampaign Field = "utm_campaign"
	FieldUTMContent  Field = "utm_content"
	FieldUTMTerm     Field = "utm_term"
)

// Derived fields written by the sanitizer
const (
	FieldOwnerHash              Field = "owner_hash"
	FieldWalletAddressMasked    Field = "wallet_address_masked"
	FieldWalletSignaturePresent Field = "wallet_signature_present"
	FieldUserAgentHash          Field = "user_agent_hash"
	FieldDeviceType             Field = "device_type"
	FieldOSFamily               Field = "os_family"
	FieldBrowserFamily          Field = "browser_family"
	FieldRefererOrigin          Field = "referer_origin"
	FieldIPHash                 Field = "ip_hash"
	FieldUserLanguage           Field = "user_language"
	FieldSensitiveRedacted      Field = "sensitive_redacted"
)

// RedactedFields lists the source keys that never survive sanitization
var RedactedFields = []Field{
	FieldOwner,
	FieldWalletAddress,
	FieldWalletSignature,
	FieldUserAgent,
	FieldReferer,
	FieldIPAddress,
	FieldAcceptLanguage,
}

// String returns the detail key
func (f Field) String() string {
	return string(f)
}
