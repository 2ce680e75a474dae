package usecases

const (
	// FeeRate is the flat fee applied to every payment.
	FeeRate = 0.02

	// MaxPaymentAmount and MinPaymentAmount bound a single payment.
	MaxPaymentAmount = 50000.0
	MinPaymentAmount = 1.0

	// HistoryLimit caps the submitter-facing transaction listing.
	HistoryLimit = 50

	// AdminListLimit caps the staff review listing.
	AdminListLimit = 200

	// ReferencePrefix starts every generated reference number.
	ReferencePrefix = "INT"

	// PasswordSymbols is the accepted special-character set for the
	// registration password policy.
	PasswordSymbols = "!@#$%^&*()_+-=[]{}|;:'\",.<>/?"
)
