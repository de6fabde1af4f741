package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
		msg  string
	}{
		{"new", New(ErrCodeInvalidVisual, "unknown visual %q", "pie"), `INVALID_VISUAL: unknown visual "pie"`, `unknown visual "pie"`},
		{"wrap", Wrap(ErrCodeFileNotFound, io.EOF, "read sales.json"), "FILE_NOT_FOUND: read sales.json: EOF", "read sales.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeNetwork, io.ErrUnexpectedEOF, "geocode Berlin")
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("errors.Is should find the cause")
	}
	if errors.Unwrap(err) != io.ErrUnexpectedEOF {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestCodeLookup(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"direct", New(ErrCodeInvalidConfig, "bad palette"), ErrCodeInvalidConfig},
		{"fmt wrapped", fmt.Errorf("load: %w", New(ErrCodeFileNotFound, "missing")), ErrCodeFileNotFound},
		{"outermost wins", Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeNetwork},
		{"plain", io.EOF, ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeInternal) {
				t.Error("Is(INTERNAL_ERROR) = true")
			}
		})
	}
}

func TestUserMessagePlain(t *testing.T) {
	if got := UserMessage(io.EOF); got != "EOF" {
		t.Errorf("UserMessage(io.EOF) = %q", got)
	}
}

func TestWarnings(t *testing.T) {
	tests := []struct {
		name string
		w    Warning
		code Code
		want string
	}{
		{"too many series", TooManySeriesWarning("tornado", 3, 2), ErrCodeTooManySeries,
			"TOO_MANY_SERIES: The tornado visual supports at most 2 value series. (received 3 series)"},
		{"invalid values", InvalidValuesWarning(""), ErrCodeInvalidData,
			"INVALID_DATA: Some values in this visual could not be displayed because they are not finite numbers."},
		{"unknown locations", UnknownLocationsWarning(2), ErrCodeLocationNotFound,
			"LOCATION_NOT_FOUND: 2 location(s) could not be found and are not shown."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.w.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.w.Code, tt.code)
			}
			if tt.w.Title == "" {
				t.Error("warning has no title")
			}
			if got := tt.w.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemporary(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeNetwork, "reset"), true},
		{New(ErrCodeTimeout, "slow"), true},
		{Wrap(ErrCodeRateLimited, errors.New("429"), "geocode"), true},
		{New(ErrCodeNotFound, "gone"), false},
		{New(ErrCodeLocationNotFound, "no match"), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := Temporary(tt.err); got != tt.want {
			t.Errorf("Temporary(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
