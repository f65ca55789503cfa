package app

import "fmt"

// DomainError is an error the HTTP layer can answer directly. Status and Code
// classify it (VALIDATION_ERROR, NOT_FOUND, IN_USE, STORE_ERROR and the
// image and reference codes); Details carries structured context such as the
// table blocking a delete.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{Status: status, Code: code, Message: message, Details: details}
}

// tableDetails names the table a store conflict or reference failure is about.
func tableDetails(table string) map[string]any {
	return map[string]any{"table": table}
}
