package validation

const (
	// Amount limits
	MinChargeAmount = 0.01
	MaxChargeAmount = 100000.00

	MaxInstallments = 36

	// String lengths
	MaxNicknameLength    = 50
	MaxHolderNameLength  = 100
	MaxDescriptionLength = 500
	MaxTokenLength       = 255
)
