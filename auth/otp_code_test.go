package auth_test

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/jrsteele09/anpr-client/auth"
	"github.com/stretchr/testify/require"
)

func TestOtpCode_Enter(t *testing.T) {
	var code auth.OtpCode

	require.NoError(t, code.Enter(0, "4"))
	require.Equal(t, 1, code.Focus())

	require.Error(t, code.Enter(1, "a"))
	require.Equal(t, "", code.Digit(1))
	require.Equal(t, 1, code.Focus())

	require.Error(t, code.Enter(1, "12"))
	require.Equal(t, "", code.Digit(1))

	require.NoError(t, code.Enter(5, "9"))
	require.Equal(t, 5, code.Focus(), "the last slot keeps focus")

	require.Error(t, code.Enter(6, "1"))
	require.Error(t, code.Enter(-1, "1"))
}

func TestOtpCode_Backspace(t *testing.T) {
	t.Run("empty slot moves focus back", func(t *testing.T) {
		var code auth.OtpCode
		require.NoError(t, code.Enter(0, "1"))
		code.Backspace(1)
		require.Equal(t, 0, code.Focus())
		require.Equal(t, "1", code.Digit(0))
	})

	t.Run("filled slot clears in place", func(t *testing.T) {
		var code auth.OtpCode
		require.NoError(t, code.Enter(2, "7"))
		code.Backspace(2)
		require.Equal(t, "", code.Digit(2))
		require.Equal(t, 2, code.Focus())
	})

	t.Run("first slot stays put", func(t *testing.T) {
		var code auth.OtpCode
		code.Backspace(0)
		require.Equal(t, 0, code.Focus())
	})
}

func TestOtpCode_Paste(t *testing.T) {
	var code auth.OtpCode

	require.True(t, code.Paste("419265"))
	require.True(t, code.Complete())
	require.Equal(t, "419265", code.Code())
	require.Equal(t, 5, code.Focus())

	code.Reset()
	for _, bad := range []string{"12345", "1234567", "12a456", "", " 12345"} {
		require.False(t, code.Paste(bad), bad)
		require.Equal(t, [auth.CodeLength]string{}, code.Digits())
	}
}

func TestOtpCode_SetFocusClamps(t *testing.T) {
	var code auth.OtpCode
	code.SetFocus(-3)
	require.Equal(t, 0, code.Focus())
	code.SetFocus(99)
	require.Equal(t, auth.CodeLength-1, code.Focus())
}

// Random input sequences never leave a slot holding anything but one digit or nothing,
// and Code always follows positional order.
func TestOtpCode_RandomInputKeepsSlotsValid(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	inputs := []string{"", "0", "5", "9", "a", "12", " ", "x9"}

	for round := 0; round < 200; round++ {
		var code auth.OtpCode
		for step := 0; step < 30; step++ {
			i := rnd.Intn(auth.CodeLength)
			switch rnd.Intn(3) {
			case 0:
				_ = code.Enter(i, inputs[rnd.Intn(len(inputs))])
			case 1:
				code.Backspace(i)
			case 2:
				code.Paste(strconv.Itoa(100000 + rnd.Intn(900000)))
			}

			expected := ""
			for _, d := range code.Digits() {
				require.True(t, d == "" || (len(d) == 1 && d[0] >= '0' && d[0] <= '9'), "slot %q", d)
				expected += d
			}
			require.Equal(t, expected, code.Code())
			require.GreaterOrEqual(t, code.Focus(), 0)
			require.Less(t, code.Focus(), auth.CodeLength)
		}
	}
}
