package fix

import (
	"strings"
	"testing"

	"github.com/danmuck/fixdecode/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDelimiter(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		raw      string
		explicit Delimiter
		want     Delimiter
	}{
		{"8=FIX.4.4|35=0", DelimiterAuto, DelimiterPipe},
		{"8=FIX.4.4\x0135=0", DelimiterAuto, DelimiterSOH},
		{"8=FIX.4.4\x0158=a|b", DelimiterAuto, DelimiterSOH},
		{"8=FIX.4.4", DelimiterAuto, DelimiterSOH},
		{"8=FIX.4.4|35=0", DelimiterSOH, DelimiterSOH},
		{"8=FIX.4.4\x0135=0", DelimiterPipe, DelimiterPipe},
	}
	for _, tc := range cases {
		got := ResolveDelimiter(tc.raw, tc.explicit)
		assert.Equal(t, tc.want, got, "ResolveDelimiter(%q, %s)", tc.raw, tc.explicit.Name())
	}
}

func TestParseDelimiter(t *testing.T) {
	testlog.Start(t)
	for raw, want := range map[string]Delimiter{
		"":       DelimiterAuto,
		"auto":   DelimiterAuto,
		"|":      DelimiterPipe,
		"PIPE":   DelimiterPipe,
		"soh":    DelimiterSOH,
		"^A":     DelimiterSOH,
		`\x01`:   DelimiterSOH,
		`\u0001`: DelimiterSOH,
		"\x01":   DelimiterSOH,
	} {
		got, err := ParseDelimiter(raw)
		require.NoError(t, err, "ParseDelimiter(%q)", raw)
		assert.Equal(t, want, got, "ParseDelimiter(%q)", raw)
	}
	_, err := ParseDelimiter(";")
	assert.Error(t, err)
}

func TestConvertDelimiterRoundTrip(t *testing.T) {
	testlog.Start(t)
	soh := ConvertDelimiter(newOrderPipe, DelimiterPipe, DelimiterSOH)
	assert.NotContains(t, soh, "|")
	assert.Equal(t, 9, strings.Count(soh, "\x01"))
	assert.Equal(t, newOrderPipe, ConvertDelimiter(soh, DelimiterSOH, DelimiterPipe))
	assert.Equal(t, newOrderPipe, ConvertDelimiter(newOrderPipe, DelimiterPipe, DelimiterAuto), "conversion to auto is a no-op")
}

func TestDelimiterPresentation(t *testing.T) {
	testlog.Start(t)
	assert.Equal(t, "Pipe (|)", DelimiterPipe.Label())
	assert.Equal(t, "SOH (ASCII 0x01)", DelimiterSOH.Label())
	assert.Equal(t, DelimiterSOH, DelimiterPipe.Toggle())
	assert.Equal(t, DelimiterPipe, DelimiterSOH.Toggle())
	assert.Equal(t, DelimiterPipe, DelimiterAuto.Toggle())
	assert.Contains(t, DelimiterPipe.Example(), "|")

	var d Delimiter
	require.NoError(t, d.UnmarshalText([]byte("pipe")))
	assert.Equal(t, DelimiterPipe, d)
	text, err := DelimiterSOH.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "soh", string(text))
	assert.Error(t, d.UnmarshalText([]byte("tab")))
}
