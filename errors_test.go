package jsonpath

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrPathParse(t *testing.T) {
	t.Parallel()

	if ErrPathParse == nil {
		t.Fatal("ErrPathParse should not be nil")
	}
	if got := ErrPathParse.Error(); got != "jsonpath: parse error" {
		t.Fatalf("ErrPathParse.Error() = %q, want %q", got, "jsonpath: parse error")
	}
}

func TestErrFunction(t *testing.T) {
	t.Parallel()

	if ErrFunction == nil {
		t.Fatal("ErrFunction should not be nil")
	}
	if got := ErrFunction.Error(); got != "jsonpath: function error" {
		t.Fatalf("ErrFunction.Error() = %q, want %q", got, "jsonpath: function error")
	}
}

func TestSentinelErrorsWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("bad expression: %w", ErrPathParse)
	if !errors.Is(wrapped, ErrPathParse) {
		t.Fatal("wrapped error should match ErrPathParse via errors.Is")
	}

	wrapped = fmt.Errorf("length() failed: %w", ErrFunction)
	if !errors.Is(wrapped, ErrFunction) {
		t.Fatal("wrapped error should match ErrFunction via errors.Is")
	}
}

func TestSentinelErrorsDistinct(t *testing.T) {
	t.Parallel()

	if errors.Is(ErrPathParse, ErrFunction) {
		t.Fatal("ErrPathParse and ErrFunction should be distinct")
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	err := &ParseError{Expr: "$[", Offset: 2, Msg: "unexpected end of input"}
	if got, want := err.Error(), "jsonpath: parse error at offset 2: unexpected end of input"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrPathParse) {
		t.Fatal("*ParseError should unwrap to ErrPathParse")
	}
}

func TestEvalError(t *testing.T) {
	t.Parallel()

	err := &EvalError{Msg: "script segment with no ScriptEvaluator configured"}
	if got, want := err.Error(), "jsonpath: script segment with no ScriptEvaluator configured"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrEval) {
		t.Fatal("*EvalError should unwrap to ErrEval")
	}
}

func TestConfigError(t *testing.T) {
	t.Parallel()

	err := &ConfigError{Msg: "path contains a script segment, but Options.DisallowScript is set"}
	if got, want := err.Error(), "jsonpath: path contains a script segment, but Options.DisallowScript is set"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrConfig) {
		t.Fatal("*ConfigError should unwrap to ErrConfig")
	}
}

func TestParse_RealFailureIsParseError(t *testing.T) {
	t.Parallel()

	_, err := Parse("$[")
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe), "Parse failure should be a *ParseError")
	assert.Equal(t, "$[", pe.Expr)
	assert.True(t, errors.Is(err, ErrPathParse))
}

func TestQuerySync_RealFailureIsEvalError(t *testing.T) {
	t.Parallel()

	doc := toValueTree(map[string]any{"a": map[string]any{"b": 1}})
	_, err := QuerySync("$.a[(@.b)]", doc, Options{})
	require.Error(t, err)

	var ee *EvalError
	require.True(t, errors.As(err, &ee), "script-disabled QuerySync failure should be an *EvalError")
	assert.True(t, errors.Is(err, ErrEval))
}
