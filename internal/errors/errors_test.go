package errors

import (
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        *TractionError
		wantCode   ErrorCode
		wantStatus int
	}{
		{name: "invalid request", err: NewInvalidRequest("bad"), wantCode: ErrInvalidRequest, wantStatus: 400},
		{name: "not found", err: NewNotFound("abc"), wantCode: ErrNotFound, wantStatus: 404},
		{name: "no data", err: NewNoData("2026-08-17..2026-08-23"), wantCode: ErrNoData, wantStatus: 404},
		{name: "all filtered", err: NewAllFiltered(100, 4), wantCode: ErrAllFiltered, wantStatus: 422},
		{name: "no metrics", err: NewNoMetrics(), wantCode: ErrNoMetrics, wantStatus: 422},
		{name: "internal", err: NewInternal(fmt.Errorf("boom")), wantCode: ErrInternal, wantStatus: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.Status != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.Status, tt.wantStatus)
			}
			if tt.err.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := NewNoData("window")
	if !Is(err, ErrNoData) {
		t.Error("Is(NewNoData, ErrNoData) = false")
	}
	if Is(err, ErrAllFiltered) {
		t.Error("Is(NewNoData, ErrAllFiltered) = true")
	}
	if Is(nil, ErrNoData) {
		t.Error("Is(nil, ...) = true")
	}
	if Is(fmt.Errorf("plain"), ErrNoData) {
		t.Error("Is(plain error, ...) = true")
	}
}

func TestErrorString(t *testing.T) {
	err := NewInvalidRequest("platform is required")
	want := "INVALID_REQUEST: platform is required"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
