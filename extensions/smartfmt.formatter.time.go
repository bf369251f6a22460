package extensions

import (
	"strconv"
	"strings"
	"time"

	"github.com/itsatony/go-cuserr"
	smartfmt "github.com/itsatony/go-smartfmt"
)

// timeUnit is one component of a rendered duration
type timeUnit struct {
	size     time.Duration
	singular string
	plural   string
	short    string
}

var timeUnits = []timeUnit{
	{24 * time.Hour, "day", "days", "d"},
	{time.Hour, "hour", "hours", "h"},
	{time.Minute, "minute", "minutes", "m"},
	{time.Second, "second", "seconds", "s"},
	{time.Millisecond, "millisecond", "milliseconds", "ms"},
}

// TimeOptions control how a duration is written
type TimeOptions struct {
	// Short writes abbreviations such as "1h 2m"
	Short bool
	// Round writes only the largest unit, rounded
	Round bool
	// Zero includes zero units below the largest unit
	Zero bool
}

// TimeFormatter writes time.Duration values in words:
//
//	{Elapsed:time}          1 hour 2 minutes 5 seconds
//	{Elapsed:time(short)}   1h 2m 5s
//	{Elapsed:time(round)}   1 hour
//	{Elapsed:time(zero)}    1 hour 0 minutes 5 seconds
//
// Milliseconds are written only for durations below one second. The options
// may also be given as the format: {Elapsed:time:short round}.
type TimeFormatter struct{}

// NewTimeFormatter creates the time formatter
func NewTimeFormatter() *TimeFormatter { return &TimeFormatter{} }

// Name implements smartfmt.Formatter
func (f *TimeFormatter) Name() string { return NameTime }

// CanAutoDetect implements smartfmt.Formatter
func (f *TimeFormatter) CanAutoDetect() bool { return false }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *TimeFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	var d time.Duration
	switch v := info.CurrentValue().(type) {
	case time.Duration:
		d = v
	case *time.Duration:
		if v == nil {
			return false, nil
		}
		d = *v
	default:
		return false, nil
	}

	text := info.FormatterOptions()
	if text == "" && info.Format() != nil {
		text = info.Format().LiteralText()
	}
	options, err := ParseTimeOptions(text)
	if err != nil {
		return false, info.ExtensionError(NameTime, ErrMsgInvalidTimeOption, err)
	}
	return true, info.Write(FormatDuration(d, options))
}

// ParseTimeOptions reads space, comma or pipe separated option names
func ParseTimeOptions(text string) (TimeOptions, error) {
	var options TimeOptions
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(TimeOptionsSep, r)
	})
	for _, field := range fields {
		switch strings.ToLower(field) {
		case TimeOptionShort:
			options.Short = true
		case TimeOptionLong:
			options.Short = false
		case TimeOptionRound:
			options.Round = true
		case TimeOptionZero:
			options.Zero = true
		default:
			return options, cuserr.NewValidationError(smartfmt.ErrCodeExtension, ErrMsgInvalidTimeOption).
				WithMetadata(smartfmt.MetaKeyValue, field)
		}
	}
	return options, nil
}

// FormatDuration writes d with the given options
func FormatDuration(d time.Duration, options TimeOptions) string {
	var sb strings.Builder
	if d < 0 {
		sb.WriteByte('-')
		d = -d
	}

	smallest := len(timeUnits) - 2 // seconds
	if d < time.Second {
		smallest = len(timeUnits) - 1
	}

	if options.Round {
		for i := 0; i <= smallest; i++ {
			u := timeUnits[i]
			if d >= u.size || i == smallest {
				writeUnit(&sb, int64(d.Round(u.size)/u.size), u, options.Short)
				return sb.String()
			}
		}
	}

	written := false
	for i := 0; i <= smallest; i++ {
		u := timeUnits[i]
		count := int64(d / u.size)
		d -= time.Duration(count) * u.size
		if count == 0 && !(options.Zero && written) {
			continue
		}
		if written {
			sb.WriteByte(' ')
		}
		writeUnit(&sb, count, u, options.Short)
		written = true
	}
	if !written {
		writeUnit(&sb, 0, timeUnits[smallest], options.Short)
	}
	return sb.String()
}

func writeUnit(sb *strings.Builder, count int64, u timeUnit, short bool) {
	sb.WriteString(strconv.FormatInt(count, 10))
	if short {
		sb.WriteString(u.short)
		return
	}
	sb.WriteByte(' ')
	if count == 1 {
		sb.WriteString(u.singular)
	} else {
		sb.WriteString(u.plural)
	}
}
