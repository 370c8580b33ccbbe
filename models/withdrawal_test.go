package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateWithdrawalRequest(t *testing.T) {
	cases := []struct {
		name    string
		amount  int
		method  string
		details string
		wantErr error
	}{
		{"esewa ok", 1000, MethodEsewa, "9841234567", nil},
		{"khalti ok", 2500, MethodKhalti, "9807654321", nil},
		{"bank ok", 1000, MethodBankTransfer, "NIC Asia 00123456789", nil},
		{"exactly minimum", 1000, MethodEsewa, "9841234567", nil},
		{"below minimum", 999, MethodEsewa, "9841234567", ErrInvalidAmount},
		{"zero amount", 0, MethodEsewa, "9841234567", ErrInvalidAmount},
		{"negative amount", -50, MethodKhalti, "9841234567", ErrInvalidAmount},
		{"unknown method", 1000, "paypal", "whatever", ErrInvalidMethod},
		{"empty method", 1000, "", "whatever", ErrInvalidMethod},
		{"wallet too short", 1000, MethodEsewa, "984123", ErrInvalidDetails},
		{"wallet not numeric", 1000, MethodKhalti, "98412345ab", ErrInvalidDetails},
		{"wallet landline prefix", 1000, MethodEsewa, "0141234567", ErrInvalidDetails},
		{"bank details too short", 1000, MethodBankTransfer, "abc", ErrInvalidDetails},
		{"empty details", 1000, MethodKhalti, "", ErrInvalidDetails},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWithdrawalRequest(tc.amount, 1000, tc.method, tc.details)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestValidateWithdrawalRequestCustomMinimum(t *testing.T) {
	require.NoError(t, ValidateWithdrawalRequest(500, 500, MethodEsewa, "9841234567"))
	require.ErrorIs(t, ValidateWithdrawalRequest(499, 500, MethodEsewa, "9841234567"), ErrInvalidAmount)
}
