package persistence

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhuman2317-tech/fitness-microservice/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	original := &domain.Cursor{
		StartedAt: time.Date(2025, 6, 1, 7, 0, 0, 123456789, time.UTC),
		ID:        "act-1",
	}

	token := EncodeCursor(original)
	require.NotEmpty(t, token)

	decoded, err := DecodeCursor(token)
	require.NoError(t, err)
	require.True(t, original.StartedAt.Equal(decoded.StartedAt))
	require.Equal(t, original.ID, decoded.ID)
}

func TestEncodeCursorNilIsEmpty(t *testing.T) {
	require.Empty(t, EncodeCursor(nil))
}

func TestDecodeCursorEmptyToken(t *testing.T) {
	cursor, err := DecodeCursor("  ")
	require.NoError(t, err)
	require.Nil(t, cursor)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("!!!not-base64!!!")
	require.Error(t, err)

	_, err = DecodeCursor(base64.StdEncoding.EncodeToString([]byte("missing-separator")))
	require.Error(t, err)
}
