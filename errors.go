package discmd

import (
	"fmt"
)

//InvalidContextError indicates an operation was called on a context that
//lacks the state the operation needs
type InvalidContextError struct {
	missing string
}

func (e InvalidContextError) Error() string {
	return "invalid context: missing " + e.missing
}

type CommandNotFoundError struct {
	Name string
}

func (e CommandNotFoundError) Error() string {
	return fmt.Sprintf(`command "%s" is not found`, e.Name)
}

//CommandRegisteredError indicates a name or alias collision in the registry
type CommandRegisteredError struct {
	Name string
}

func (e CommandRegisteredError) Error() string {
	return fmt.Sprintf(`command or alias "%s" is already registered`, e.Name)
}

//ArgumentMismatchError indicates given arguments can not satisfy the
//signature of a command's callback
type ArgumentMismatchError struct {
	Command string
	Reason  string
}

func (e ArgumentMismatchError) Error() string {
	return fmt.Sprintf(`argument mismatch calling "%s": %s`, e.Command, e.Reason)
}

//CommandInvokeError wraps an error returned by a command's callback
//during regular dispatch
type CommandInvokeError struct {
	Name string
	err  error
}

func (e CommandInvokeError) Error() string {
	return fmt.Sprintf(`error invoking command "%s": %v`, e.Name, e.err)
}

func (e CommandInvokeError) Unwrap() error {
	return e.err
}
