package proto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestCodecIsRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_OmitsEmptyRefreshToken(t *testing.T) {
	b, err := Codec{}.Marshal(&RefreshTokenRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))
}
