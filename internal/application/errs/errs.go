package errs

import "fmt"

type PermissionsError struct {
	Err error
}

func (t PermissionsError) Error() string {
	return fmt.Sprintf("error in permissions: %v", t.Err)
}

type NotFoundError struct {
	Entity string
}

func (t NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", t.Entity)
}

type ValidationError struct {
	Err error
}

func (t ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", t.Err)
}

type RetryableError struct {
	Err error
}

func (t RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", t.Err)
}
