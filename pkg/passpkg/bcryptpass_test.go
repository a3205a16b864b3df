package passpkg

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/octacity/octa-bank/pkg/randompkg"
)

func TestPassword(t *testing.T) {
	password := randompkg.String(10)

	hashedPassword1, err := Hash(password)
	require.NoError(t, err)
	require.NotEmpty(t, hashedPassword1)

	err = Check(password, hashedPassword1)
	require.NoError(t, err)

	wrongPassword := randompkg.String(10)
	err = Check(wrongPassword, hashedPassword1)
	require.EqualError(t, err, bcrypt.ErrMismatchedHashAndPassword.Error())

	// Hashing the same password twice must produce distinct salts.
	hashedPassword2, err := Hash(password)
	require.NoError(t, err)
	require.NotEmpty(t, hashedPassword2)
	require.NotEqual(t, hashedPassword1, hashedPassword2)
}
