package datefmt

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 2023-11-14 22:13:20 UTC, a Tuesday.
const ts = int64(1700000000)

func TestFormatDefault(t *testing.T) {
	f := New("hr", time.UTC)

	out := f.Format(ts)
	require.Equal(t, "14.11.2023 22:13", out)
	require.Regexp(t, regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4} \d{2}:\d{2}$`), out)
}

func TestFormatTime(t *testing.T) {
	f := New("hr", time.UTC)

	out := f.Format(ts, TokenTime)
	require.Equal(t, "22:13", out)
	require.Regexp(t, regexp.MustCompile(`^\d{2}:\d{2}$`), out)
}

func TestFormatUnknownTokenFallsBack(t *testing.T) {
	f := New("en", time.UTC)
	require.Equal(t, f.Format(ts), f.Format(ts, "full"))
	require.Equal(t, f.Format(ts), f.Format(ts, ""))
}

func TestFormatWeekdayUsesProcessLocale(t *testing.T) {
	require.Equal(t, "Tuesday", New("en", time.UTC).Format(ts, TokenWeekday))
	require.Equal(t, "Dienstag", New("de", time.UTC).Format(ts, TokenWeekday))
	require.Equal(t, "utorak", New("hr", time.UTC).Format(ts, TokenWeekday))
}

func TestFormatUsesLocation(t *testing.T) {
	zagreb := time.FixedZone("CET", 3600)
	require.Equal(t, "14.11.2023 23:13", New("hr", zagreb).Format(ts))
}

func TestUnknownLocaleFallsBackToCroatian(t *testing.T) {
	require.Equal(t, "hr", New("fr", time.UTC).Locale())
}

func TestTemplateFunc(t *testing.T) {
	fn := New("hr", time.UTC).TemplateFunc()

	out, err := fn(float64(ts))
	require.NoError(t, err)
	require.Equal(t, "14.11.2023 22:13", out)

	out, err = fn(ts, TokenTime)
	require.NoError(t, err)
	require.Equal(t, "22:13", out)

	out, err = fn("1700000000", TokenTime)
	require.NoError(t, err)
	require.Equal(t, "22:13", out)

	_, err = fn(nil)
	require.Error(t, err)
}
