package enum

// PayoutStatus is the settlement state of a vendor's daily payout. The only
// allowed transition is unsettled -> settled; settled is terminal.
type PayoutStatus string

const (
	PayoutStatusUnsettled PayoutStatus = "unsettled"
	PayoutStatusSettled   PayoutStatus = "settled"
)

func (s PayoutStatus) Valid() bool {
	return s == PayoutStatusUnsettled || s == PayoutStatusSettled
}
