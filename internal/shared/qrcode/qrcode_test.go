package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/shared/qrcode/qrcodetest"
)

func TestPNG(t *testing.T) {
	const token = "PERMIT-3q2-k9Vx0bJd8mRz"

	data, err := PNG(token)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, Size, img.Bounds().Dx())
	assert.Equal(t, token, qrcodetest.Decode(t, data))
}

func TestBase64PNG(t *testing.T) {
	encoded, err := Base64PNG("PERMIT-abc")
	require.NoError(t, err)
	assert.Equal(t, "PERMIT-abc", qrcodetest.DecodeBase64(t, encoded))

	_, err = Base64PNG("")
	assert.Error(t, err)
}
