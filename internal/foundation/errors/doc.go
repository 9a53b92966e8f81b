// Package errors provides the classified error primitives used across docrender.
//
// Every failure outside the page renderer itself is reported as a
// ClassifiedError carrying a category (config, validation, filesystem,
// render, ...), a severity, a retry hint and structured context. The CLI
// adapter turns those into exit codes and user-facing messages.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "write page").
//		WithContext("path", outPath).
//		Build()
package errors
