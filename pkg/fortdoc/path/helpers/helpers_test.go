package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding"
)

func TestBufferSize(t *testing.T) {
	assert.Equal(t, minBufferSize, BufferSize(0))
	assert.Equal(t, 2000, BufferSize(2000))
	assert.LessOrEqual(t, BufferSize(1<<30), maxBufferSize)
	assert.GreaterOrEqual(t, BufferSize(1<<30), 4*1024)
}

func TestEncoding(t *testing.T) {
	enc, err := Encoding("")
	require.NoError(t, err)
	assert.Equal(t, encoding.Nop, enc)

	enc, err = Encoding("utf-8")
	require.NoError(t, err)
	assert.NotNil(t, enc)

	latin, err := Encoding("ISO-8859-1")
	require.NoError(t, err)
	decoded, err := latin.NewDecoder().Bytes([]byte{0xe9})
	require.NoError(t, err)
	assert.Equal(t, "é", string(decoded))

	_, err = Encoding("no-such-encoding")
	assert.Error(t, err)
}
