package catalog

import "fmt"

// InvalidInputError reports a product field outside its allowed range.
// Index is set when the offending field is an entry in the discounts list.
type InvalidInputError struct {
	Field  string
	Reason string
	Index  int
}

func (e *InvalidInputError) Error() string {
	if e.Field == "discounts" {
		return fmt.Sprintf("invalid input: %s[%d] %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
}
