package errors

import "strings"

// ErrorCollection aggregates errors from independent operations, typically
// the per-child failures of a shutdown sweep.
type ErrorCollection struct {
	errors []error
}

func NewErrorCollection() *ErrorCollection {
	return &ErrorCollection{}
}

// Add appends an error to the collection; nil errors are ignored.
func (c *ErrorCollection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

func (c *ErrorCollection) HasErrors() bool {
	return len(c.errors) > 0
}

func (c *ErrorCollection) Error() string {
	if len(c.errors) == 0 {
		return ""
	}
	messages := make([]string, 0, len(c.errors))
	for _, err := range c.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ToError returns the collection as an error, or nil when empty.
func (c *ErrorCollection) ToError() error {
	if !c.HasErrors() {
		return nil
	}
	return c
}
