package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "resource not found",
			},
			want: "resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to process",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		code    ErrorCode
		message string
	}{
		{"not found", NotFound("Job Not Found"), ErrCodeNotFound, "Job Not Found"},
		{"not foundf", NotFoundf("%s Not Found", "Hire"), ErrCodeNotFound, "Hire Not Found"},
		{"conflict", Conflict("exists"), ErrCodeConflict, "exists"},
		{"validation", Validation("bad"), ErrCodeValidation, "bad"},
		{"validationf", Validationf("limit must be > %d", 0), ErrCodeValidation, "limit must be > 0"},
		{"forbidden", Forbidden("taken"), ErrCodeForbidden, "taken"},
		{"unauthorized", Unauthorized("sign in"), ErrCodeUnauthorized, "sign in"},
		{"remote rejected", RemoteRejected("bid not found"), ErrCodeRemoteRejected, "bid not found"},
		{"remote rejected default", RemoteRejected(""), ErrCodeRemoteRejected, "remote service rejected the request"},
		{"internal", Internal("boom"), ErrCodeInternal, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("title", "title is too short")
	if err.Field != "title" {
		t.Errorf("ValidationField().Field = %v, want title", err.Field)
	}
	if GetField(err) != "title" {
		t.Errorf("GetField() = %v, want title", GetField(err))
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("write conflict")
	err := Wrap(cause, ErrCodeTransaction, "hire influencer")
	if err.Code != ErrCodeTransaction {
		t.Errorf("Wrap().Code = %v, want %v", err.Code, ErrCodeTransaction)
	}
	if !errors.Is(err, cause) {
		t.Error("Wrap() should preserve the cause for errors.Is")
	}

	if Wrap(nil, ErrCodeInternal, "nothing") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	wrapped := Wrapf(cause, ErrCodeInternal, "job %s", "abc")
	if wrapped.Message != "job abc" {
		t.Errorf("Wrapf().Message = %q, want %q", wrapped.Message, "job abc")
	}
}

func TestIsChecks(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", Forbidden("suspended"))

	tests := []struct {
		name  string
		check func(error) bool
		err   error
		want  bool
	}{
		{"not found", IsNotFound, NotFound("x"), true},
		{"not found via wrap", IsNotFound, fmt.Errorf("ctx: %w", NotFound("x")), true},
		{"forbidden wrapped", IsForbidden, wrapped, true},
		{"forbidden mismatch", IsForbidden, NotFound("x"), false},
		{"conflict", IsConflict, Conflict("x"), true},
		{"validation", IsValidation, Validation("x"), true},
		{"unauthorized", IsUnauthorized, Unauthorized("x"), true},
		{"remote rejected", IsRemoteRejected, RemoteRejected("x"), true},
		{"transaction", IsTransaction, Wrap(errors.New("x"), ErrCodeTransaction, "tx"), true},
		{"internal", IsInternal, Internal("x"), true},
		{"timeout", IsTimeout, &AppError{Code: ErrCodeTimeout}, true},
		{"canceled", IsCanceled, &AppError{Code: ErrCodeCanceled}, true},
		{"plain error", IsNotFound, errors.New("x"), false},
		{"nil", IsNotFound, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(fmt.Errorf("wrap: %w", RemoteRejected("no"))); got != ErrCodeRemoteRejected {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeRemoteRejected)
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"transaction hides cause", Wrap(errors.New("E11000 secret detail"), ErrCodeTransaction, "could not hire influencer"), "could not hire influencer"},
		{"forbidden shows message", Forbidden("This Job has been taken!"), "This Job has been taken!"},
		{"plain error", errors.New("driver exploded"), "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicMessage(tt.err); got != tt.want {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
