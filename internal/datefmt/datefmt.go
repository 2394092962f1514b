// Package datefmt renders provider Unix timestamps for the templates.
package datefmt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/hr"
)

// Format tokens understood by Formatter.Format.
const (
	TokenTime    = "time"
	TokenWeekday = "weekday"
)

const (
	layoutDateTime = "02.01.2006 15:04"
	layoutTime     = "15:04"
)

// Formatter is fixed to one locale and time zone for the life of the process.
type Formatter struct {
	trans locales.Translator
	loc   *time.Location
}

// New returns a Formatter for locale ("hr", "en" or "de"; anything else falls
// back to "hr") rendering times in loc.
func New(locale string, loc *time.Location) *Formatter {
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{trans: translator(locale), loc: loc}
}

func translator(locale string) locales.Translator {
	switch locale {
	case "en":
		return en.New()
	case "de":
		return de.New()
	default:
		return hr.New()
	}
}

// Locale reports the locale the formatter was built with.
func (f *Formatter) Locale() string {
	return f.trans.Locale()
}

// Format renders ts. With TokenTime only hour and minute are shown, with
// TokenWeekday the localized weekday name; any other or missing token gives
// DD.MM.YYYY HH:MM.
func (f *Formatter) Format(ts int64, format ...string) string {
	t := time.Unix(ts, 0).In(f.loc)

	token := ""
	if len(format) > 0 {
		token = format[0]
	}
	switch token {
	case TokenTime:
		return t.Format(layoutTime)
	case TokenWeekday:
		return f.trans.WeekdayWide(t.Weekday())
	default:
		return t.Format(layoutDateTime)
	}
}

// TemplateFunc adapts Format for templates, where timestamps arrive as
// decoded JSON numbers.
func (f *Formatter) TemplateFunc() func(ts any, format ...string) (string, error) {
	return func(ts any, format ...string) (string, error) {
		unix, err := toUnix(ts)
		if err != nil {
			return "", err
		}
		return f.Format(unix, format...), nil
	}
}

func toUnix(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case float32:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case interface{ Int64() (int64, error) }:
		return n.Int64()
	default:
		return 0, fmt.Errorf("datefmt: unsupported timestamp type %T", v)
	}
}
