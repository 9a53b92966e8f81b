package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docrender.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.Equal(t, "[config:fatal] invalid configuration", err.Error())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "docrender.yaml", file)
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", ConfigError("test error").Build())

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.Equal(t, CategoryConfig, GetCategory(err))
		assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))

		classified, ok := AsClassified(err)
		require.True(t, ok)
		assert.False(t, classified.CanRetry())
		assert.True(t, classified.IsFatal())
	})

	t.Run("WithContext does not mutate the original", func(t *testing.T) {
		base := RenderError("render page").Build()
		derived := base.WithContext("page", "index.html")

		_, exists := base.Context().Get("page")
		assert.False(t, exists)
		page, _ := derived.Context().GetString("page")
		assert.Equal(t, "index.html", page)
		assert.True(t, errors.Is(derived, base))
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("disk full")
		err := WrapError(originalErr, CategoryFileSystem, "write page").
			Warning().
			Retryable().
			WithContext("path", "site/index.html").
			WithContext("bytes", 4096).
			Build()

		assert.Equal(t, CategoryFileSystem, err.Category())
		assert.Equal(t, SeverityWarning, err.Severity())
		assert.Equal(t, RetryBackoff, err.RetryStrategy())
		assert.ErrorIs(t, err, originalErr)
		assert.Equal(t, "bytes=4096 path=site/index.html", err.ContextString())
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryBackoff},
			{"RenderError", RenderError("test"), CategoryRender, SeverityError, RetryNever},
			{"MarkdownError", MarkdownError("test"), CategoryMarkdown, SeverityError, RetryNever},
			{"WatchError", WatchError("test"), CategoryWatch, SeverityFatal, RetryNever},
			{"RuntimeError", RuntimeError("test"), CategoryRuntime, SeverityFatal, RetryNever},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", 42).Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	v1, _ := merged.GetString("key1")
	v2, _ := merged.Get("key2")
	shared, _ := merged.GetString("shared")
	assert.Equal(t, "value1", v1)
	assert.Equal(t, 42, v2)
	assert.Equal(t, "overridden", shared)

	_, ok := merged.GetString("key2")
	assert.False(t, ok, "non-string values are not returned by GetString")

	var nilCtx ErrorContext
	assert.Equal(t, ctx2, nilCtx.Merge(ctx2))
}
