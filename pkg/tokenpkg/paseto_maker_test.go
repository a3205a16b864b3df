package tokenpkg

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/octacity/octa-bank/pkg/randompkg"
)

func TestPasetoMakerKeySize(t *testing.T) {
	_, err := NewPasetoMaker(randompkg.String(31))
	require.Error(t, err)

	_, err = NewPasetoMaker(randompkg.String(33))
	require.Error(t, err)
}

func TestPasetoMaker(t *testing.T) {
	maker, err := NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	userID := uuid.NewString()
	role := "admin"
	duration := time.Minute

	issuedAt := time.Now()
	expiredAt := issuedAt.Add(duration)

	token, payload, err := maker.CreateToken(userID, role, duration)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, payload)

	gotPayload, err := maker.VerifyToken(token)
	require.NoError(t, err)

	wantPayload := &Payload{
		UserID:    userID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiredAt: expiredAt,
	}

	ignoreIDOpt := cmpopts.IgnoreFields(Payload{}, "ID")
	approxTimeOpt := cmpopts.EquateApproxTime(time.Second)
	if diff := cmp.Diff(wantPayload, gotPayload, ignoreIDOpt, approxTimeOpt); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	require.NotZero(t, gotPayload.ID)
}

func TestExpiredPasetoToken(t *testing.T) {
	maker, err := NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	token, payload, err := maker.CreateToken(uuid.NewString(), "user", -time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, payload)

	gotPayload, err := maker.VerifyToken(token)
	require.EqualError(t, err, ErrExpiredToken.Error())
	require.Nil(t, gotPayload)
}

func TestTamperedPasetoToken(t *testing.T) {
	maker, err := NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	token, _, err := maker.CreateToken(uuid.NewString(), "user", time.Minute)
	require.NoError(t, err)

	gotPayload, err := maker.VerifyToken(token + "x")
	require.EqualError(t, err, ErrInvalidToken.Error())
	require.Nil(t, gotPayload)
}
