package enums

// TransactionStatus is the settlement state of a Transaction row. Only
// successful invoice payments are recorded.
type TransactionStatus string

const TransactionStatusSucceeded TransactionStatus = "succeeded"

// String implements fmt.Stringer.
func (t TransactionStatus) String() string {
	return string(t)
}
