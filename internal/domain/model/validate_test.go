package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		req        EmployeeRequest
		wantFields []string
	}{
		{
			name: "valid request",
			req: EmployeeRequest{
				FirstName:  " Ada ",
				LastName:   "Lovelace",
				Email:      "ada@example.com",
				Department: "R&D",
			},
		},
		{
			name:       "missing names and department",
			req:        EmployeeRequest{Email: "ada@example.com"},
			wantFields: []string{"firstName", "lastName", "department"},
		},
		{
			name: "bad email",
			req: EmployeeRequest{
				FirstName:  "Ada",
				LastName:   "Lovelace",
				Email:      "not-an-email",
				Department: "R&D",
			},
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := tt.req
			err := req.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				assert.Equal(t, "Ada", req.FirstName)
				return
			}
			var fe FieldErrors
			require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
			for _, f := range tt.wantFields {
				assert.Contains(t, fe, f)
			}
		})
	}
}

func TestSubmitOvertimeRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := SubmitOvertimeRequest{
		OvertimeDate:   Date{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
		RequestedHours: 2.5,
		Reason:         "  quarter close  ",
	}
	require.NoError(t, ok.Validate())
	assert.Equal(t, "quarter close", ok.Reason)

	bad := SubmitOvertimeRequest{RequestedHours: 30}
	err := bad.Validate()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "is required", fe["overtimeDate"])
	assert.Equal(t, "must be at most 24", fe["requestedHours"])
	assert.Equal(t, "is required", fe["reason"])
	assert.Contains(t, fe.Error(), "overtimeDate: is required")
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Parallel()

	req := LoginRequest{Email: " admin@optitrack.io ", Password: "secret"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "admin@optitrack.io", req.Email)

	empty := LoginRequest{}
	var fe FieldErrors
	require.True(t, errors.As(empty.Validate(), &fe))
	assert.Len(t, fe, 2)
}

func TestParseOvertimeDecision(t *testing.T) {
	t.Parallel()

	d, ok := ParseOvertimeDecision("APPROVE")
	require.True(t, ok)
	assert.Equal(t, OvertimeApproved, d.ResultingStatus())

	d, ok = ParseOvertimeDecision("reject")
	require.True(t, ok)
	assert.Equal(t, OvertimeRejected, d.ResultingStatus())

	_, ok = ParseOvertimeDecision("maybe")
	assert.False(t, ok)
}

func TestSplitFullName(t *testing.T) {
	t.Parallel()

	first, last := SplitFullName(" Grace Brewster Hopper ")
	assert.Equal(t, "Grace", first)
	assert.Equal(t, "Brewster Hopper", last)

	first, last = SplitFullName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)
}
