package attachment

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngest_EncodesDataURI(t *testing.T) {
	data := []byte("receipt contents")
	att, err := Ingest("recibo.pdf", "application/pdf", data)
	require.NoError(t, err)

	assert.NotEmpty(t, att.ID)
	assert.Equal(t, "recibo.pdf", att.Name)
	assert.Equal(t, "application/pdf", att.Type)
	expected := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)
	assert.Equal(t, expected, att.Data)
}

func TestIngest_DefaultsMimeType(t *testing.T) {
	att, err := Ingest("blob", "", []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", att.Type)
	assert.Contains(t, att.Data, "data:application/octet-stream;base64,")
}

func TestIngest_RejectsOversizedFile(t *testing.T) {
	_, err := Ingest("big.png", "image/png", bytes.Repeat([]byte{0xff}, MaxSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestIngest_AcceptsFileAtLimit(t *testing.T) {
	att, err := Ingest("exact.png", "image/png", bytes.Repeat([]byte{0x01}, MaxSize))
	require.NoError(t, err)
	assert.NotEmpty(t, att.Data)
}

func TestIngest_AllowsEmptyFile(t *testing.T) {
	att, err := Ingest("empty.txt", "text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "data:text/plain;base64,", att.Data)
}
