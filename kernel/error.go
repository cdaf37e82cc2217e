// Package kernel contains the types shared by every kernel subsystem.
package kernel

// Error describes a kernel error. Errors that can be raised after the
// console is up are declared as package-level pointers so the fatal path
// never has to allocate.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
