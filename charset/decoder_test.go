package charset_test

import (
	"testing"

	"github.com/fwojciec/newsdoc"
	"github.com/fwojciec/newsdoc/charset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

const koreanText = "<html><body><p>정부는 오늘 새로운 경제 정책을 발표했다.</p></body></html>"

func eucKR(t *testing.T, s string) []byte {
	t.Helper()
	b, err := korean.EUCKR.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestDecoder_Decode(t *testing.T) {
	t.Parallel()

	t.Run("decodes UTF-8 when no charset is declared", func(t *testing.T) {
		t.Parallel()

		text, label := charset.NewDecoder().Decode([]byte(koreanText), "")

		assert.Equal(t, koreanText, text)
		assert.Equal(t, newsdoc.DefaultCharset, label)
	})

	t.Run("uses declared charset without falling back", func(t *testing.T) {
		t.Parallel()

		text, label := charset.NewDecoder().Decode(eucKR(t, koreanText), "euc-kr")

		assert.Equal(t, koreanText, text)
		assert.Equal(t, "EUC-KR", label)
	})

	t.Run("falls back to EUC-KR when declared charset yields no Hangul", func(t *testing.T) {
		t.Parallel()

		text, label := charset.NewDecoder().Decode(eucKR(t, koreanText), "UTF-8")

		assert.Equal(t, koreanText, text)
		assert.Equal(t, "EUC-KR", label)
	})

	t.Run("returns fallback decoding when neither has Hangul", func(t *testing.T) {
		t.Parallel()

		body, err := charmap.Windows1252.NewEncoder().Bytes([]byte("café crème"))
		require.NoError(t, err)
		want, err := korean.EUCKR.NewDecoder().Bytes(body)
		require.NoError(t, err)

		text, label := charset.NewDecoder().Decode(body, "UTF-8")

		assert.Equal(t, string(want), text)
		assert.Equal(t, "EUC-KR", label)
	})

	t.Run("falls back when declared charset is unknown", func(t *testing.T) {
		t.Parallel()

		text, label := charset.NewDecoder().Decode(eucKR(t, koreanText), "x-no-such-charset")

		assert.Equal(t, koreanText, text)
		assert.Equal(t, "EUC-KR", label)
	})

	t.Run("returns raw bytes when no candidate decodes", func(t *testing.T) {
		t.Parallel()

		d := charset.NewDecoder(charset.WithFallbacks("x-bogus"))
		text, label := d.Decode([]byte("plain"), "x-no-such-charset")

		assert.Equal(t, "plain", text)
		assert.Equal(t, "X-NO-SUCH-CHARSET", label)
	})

	t.Run("returns declared decoding when fallbacks do not decode", func(t *testing.T) {
		t.Parallel()

		d := charset.NewDecoder(charset.WithFallbacks("x-bogus"))
		text, label := d.Decode([]byte("plain english page"), "utf-8")

		assert.Equal(t, "plain english page", text)
		assert.Equal(t, "UTF-8", label)
	})

	t.Run("tries detected charset after fallbacks", func(t *testing.T) {
		t.Parallel()

		d := charset.NewDecoder(charset.WithFallbacks(), charset.WithDetection())
		text, label := d.Decode([]byte(koreanText), "ISO-8859-1")

		assert.Equal(t, koreanText, text)
		assert.Equal(t, "UTF-8", label)
	})
}

func TestDetect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "UTF-8", charset.Detect([]byte(koreanText)))
}

func TestHasHangul(t *testing.T) {
	t.Parallel()

	assert.True(t, charset.HasHangul("abc 가 def"))
	assert.True(t, charset.HasHangul("ㄱ"))
	assert.False(t, charset.HasHangul("plain | text"))
	assert.False(t, charset.HasHangul("漢字"))
	assert.False(t, charset.HasHangul(""))
}
