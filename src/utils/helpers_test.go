package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageExt(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.webp"} {
		_, err := ImageExt(name)
		assert.NoError(t, err, name)
	}
	_, err := ImageExt("evil.gif")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
	_, err = ImageExt("noext")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("Test Beach", ".png")
	assert.True(t, strings.HasPrefix(key, "pictures/test-beach-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.NotEqual(t, key, ObjectKey("Test Beach", ".png"))

	assert.True(t, strings.HasPrefix(ObjectKey("!!!", ".jpg"), "pictures/picture-"))
}

func TestDataURIRoundTrip(t *testing.T) {
	uri := DataURI("image/png", []byte("hello"))
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", uri)

	ct, data, err := DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, "hello", string(data))

	_, data, err = DecodeDataURI("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, _, err = DecodeDataURI("data:image/png,raw")
	assert.Error(t, err)
	_, _, err = DecodeDataURI("")
	assert.Error(t, err)
}
