package setting

// Option limits and defaults.
const (
	ScanIntervalDefault     = 60.0
	ScanIntervalMin         = 30.0
	ScanIntervalMinTestMode = 10.0
	ScanIntervalMax         = 600.0
	ScanIntervalStep        = 10.0

	IntervalMultiplierDefault = 10
	IntervalMultiplierMin     = 2
	IntervalMultiplierMax     = 60
	IntervalMultiplierStep    = 2

	RequestDelayDefault = 0.3
	RequestDelayMin     = 0.0
	RequestDelayMax     = 2.0
	RequestDelayStep    = 0.1
)

// Form field keys.
const (
	KeyUsername           = "username"
	KeyPassword           = "password"
	KeyCountryCode        = "country_code"
	KeyAcceptTerms        = "accept_terms"
	KeyScanInterval       = "scan_interval"
	KeyIntervalMultiplier = "interval_multiplier"
	KeyRequestDelay       = "request_delay"
	KeyExcludedCategories = "excluded_categories"
	KeyTestMode           = "test_mode"
	KeyTestFolder         = "test_folder"
	KeyBase               = "base"
)

// Form placeholders.
const (
	PlaceholderTermsLink     = "terms_link"
	PlaceholderErrorDetail   = "error_detail"
	PlaceholderSharedAccount = "shared_account"
	PlaceholderUsername      = KeyUsername
)
