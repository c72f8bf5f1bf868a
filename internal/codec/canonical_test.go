package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeKeyOrder(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"ascii keys sort",
			`{"b":1,"a":2,"c":3}`,
			`{"a":2,"b":1,"c":3}`,
		},
		{
			"nested objects sort too",
			`{"z":{"y":1,"x":2},"a":[{"q":1,"p":2}]}`,
			`{"a":[{"p":2,"q":1}],"z":{"x":2,"y":1}}`,
		},
		{
			// U+10000 encodes as a surrogate pair starting 0xD800, which
			// sorts before U+FB01 in UTF-16 but after it in UTF-8 bytes.
			"supplementary plane keys use UTF-16 order",
			"{\"ﬁ\":1,\"\U00010000\":2}",
			"{\"\U00010000\":2,\"ﬁ\":1}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCanonicalizeStrings(t *testing.T) {
	// NFC: e + combining acute collapses to the precomposed form.
	got, err := Canonicalize([]byte("{\"k\":\"é\"}"))
	require.NoError(t, err)
	assert.Equal(t, "{\"k\":\"é\"}", string(got))

	// No HTML escaping.
	got, err = Canonicalize([]byte(`{"k":"<a> & </a>"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"k":"<a> & </a>"}`, string(got))

	// Control characters escape; tabs and newlines use short forms.
	got, err = Canonicalize([]byte(`{"k":"a\tb\ncd"}`))
	require.NoError(t, err)
	assert.Equal(t, `{"k":"a\tb\ncd"}`, string(got))
}

func TestCanonicalizeRejects(t *testing.T) {
	for name, input := range map[string]string{
		"null value":    `{"k":null}`,
		"null in array": `[1,null]`,
		"float":         `{"k":1.5}`,
		"exponent":      `{"k":1e3}`,
		"bare null":     `null`,
		"malformed":     `{"k":`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Canonicalize([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestCanonicalizeIdempotent(t *testing.T) {
	input := `{"b":[true,false,{"y":1,"x":"s"}],"a":-7}`
	once, err := Canonicalize([]byte(input))
	require.NoError(t, err)
	twice, err := Canonicalize(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestCompareUTF16(t *testing.T) {
	assert.Equal(t, -1, compareUTF16("a", "b"))
	assert.Equal(t, 1, compareUTF16("b", "a"))
	assert.Equal(t, 0, compareUTF16("same", "same"))
	assert.Equal(t, -1, compareUTF16("ab", "abc"))
	assert.Equal(t, -1, compareUTF16("\U00010000", "ﬁ"))
}
