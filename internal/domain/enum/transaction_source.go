package enum

// TransactionSource identifies what created a ledger entry. Mutability is a
// property of the source: system-generated entries are permanent audit
// records and can never be edited or deleted.
type TransactionSource string

const (
	SourceManual              TransactionSource = "manual"
	SourceVendorPayout        TransactionSource = "vendor_payout"
	SourceProcessorSettlement TransactionSource = "processor_settlement"
)

// Valid reports whether the source is one of the known variants.
func (s TransactionSource) Valid() bool {
	switch s {
	case SourceManual, SourceVendorPayout, SourceProcessorSettlement:
		return true
	}
	return false
}

// Mutable reports whether entries with this source may be edited or deleted.
func (s TransactionSource) Mutable() bool {
	return s == SourceManual
}
