package mgclient

// Record is one result row. Values are positional; the column list
// returned by Execute gives each position its name.
type Record struct {
	Values []Value
}
