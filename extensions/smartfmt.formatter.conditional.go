package extensions

import (
	"strconv"
	"strings"
	"time"

	smartfmt "github.com/itsatony/go-smartfmt"
	"github.com/itsatony/go-smartfmt/internal"
)

// ConditionalFormatter picks one parameter by the value:
//
//	bool           true|false
//	number         zero|one|two|...|default, negatives use the last
//	number         >=55?Senior|>=30&<55?Adult|Child
//	string         non-empty|empty
//	time.Time      past|now|future, or past|future
//	time.Duration  negative|zero|positive
//	other          not-nil|nil
//
// Comparisons are ==, !=, <, <=, > and >= joined by & (and) or / (or).
type ConditionalFormatter struct{}

// NewConditionalFormatter creates the conditional formatter
func NewConditionalFormatter() *ConditionalFormatter { return &ConditionalFormatter{} }

// Name implements smartfmt.Formatter
func (f *ConditionalFormatter) Name() string { return NameConditional }

// CanAutoDetect implements smartfmt.Formatter
func (f *ConditionalFormatter) CanAutoDetect() bool { return true }

// TryEvaluateFormat implements smartfmt.Formatter
func (f *ConditionalFormatter) TryEvaluateFormat(info *smartfmt.FormattingInfo) (bool, error) {
	format := info.Format()
	explicit := info.Placeholder() != nil && info.Placeholder().FormatterName != ""
	var params []*smartfmt.Format
	if format != nil {
		params = format.Split(ParamSeparator)
	}
	if len(params) < 2 {
		if explicit {
			return false, info.ExtensionError(NameConditional, ErrMsgTooFewParams, nil)
		}
		return false, nil
	}

	value := info.CurrentValue()
	if n, ok := internal.ToFloat(value); ok && hasComparison(params[0]) {
		chosen, err := chooseByComparison(info, params, n)
		if err != nil || chosen == nil {
			return true, err
		}
		return true, info.FormatAsChild(chosen, value)
	}

	index := conditionIndex(value, len(params))
	return true, info.FormatAsChild(params[index], value)
}

// conditionIndex selects the parameter for values without comparisons
func conditionIndex(value any, count int) int {
	last := count - 1
	clamp := func(i int) int {
		if i > last {
			return last
		}
		return i
	}

	if internal.IsNil(value) {
		return last
	}
	switch v := value.(type) {
	case bool:
		if v {
			return 0
		}
		return 1
	case string:
		if v != "" {
			return 0
		}
		return 1
	case time.Time:
		now := time.Now()
		switch {
		case v.Before(now):
			return 0
		case count == 2:
			return 1
		case v.After(now):
			return clamp(2)
		default:
			return 1
		}
	case time.Duration:
		switch {
		case v < 0:
			return 0
		case v == 0:
			return 1
		default:
			return clamp(2)
		}
	}

	if n, ok := internal.ToFloat(value); ok {
		if n < 0 {
			return last
		}
		if n >= float64(last) {
			return last
		}
		return int(n)
	}
	return 0
}

// chooseByComparison returns the first parameter whose comparison holds, the
// trailing parameter without comparison, or nil.
func chooseByComparison(info *smartfmt.FormattingInfo, params []*smartfmt.Format, n float64) (*smartfmt.Format, error) {
	for i, param := range params {
		conditions, length, ok := leadingComparison(param)
		if !ok {
			if i != len(params)-1 {
				return nil, info.ExtensionError(NameConditional, ErrMsgComparisonParamOrder, nil)
			}
			return param, nil
		}
		if evaluateConditions(conditions, n) {
			return param.Substring(length, -1), nil
		}
	}
	return nil, nil
}

// comparison is one "op value" term, combined with the previous term by
// and (&) or or (/)
type comparison struct {
	or    bool
	op    string
	value float64
}

var comparisonOperators = []string{"==", "!=", "<=", ">=", "<", ">", "="}

// hasComparison reports whether the format starts with a comparison
func hasComparison(param *smartfmt.Format) bool {
	_, _, ok := leadingComparison(param)
	return ok
}

// leadingComparison parses the comparison prefix of the first literal of
// param. length is the offset of the text after the '?'.
func leadingComparison(param *smartfmt.Format) ([]comparison, int, bool) {
	if param == nil || len(param.Items) == 0 {
		return nil, 0, false
	}
	lit, ok := param.Items[0].(*smartfmt.LiteralText)
	if !ok || lit.IsEscape() {
		return nil, 0, false
	}
	conditions, n, ok := parseComparisons(lit.RawText())
	if !ok {
		return nil, 0, false
	}
	return conditions, lit.StartIndex() - param.StartIndex() + n, true
}

// parseComparisons parses terms like ">=13&<20?" and returns the number of
// bytes consumed including the '?'.
func parseComparisons(s string) ([]comparison, int, bool) {
	var conditions []comparison
	pos := 0
	for {
		c := comparison{}
		if len(conditions) > 0 {
			if pos >= len(s) {
				return nil, 0, false
			}
			switch s[pos] {
			case '&':
			case '/':
				c.or = true
			default:
				return nil, 0, false
			}
			pos++
		}

		op := ""
		for _, candidate := range comparisonOperators {
			if strings.HasPrefix(s[pos:], candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			return nil, 0, false
		}
		pos += len(op)
		if op == "=" {
			op = "=="
		}
		c.op = op

		end := pos
		for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.' || end == pos && (s[end] == '-' || s[end] == '+')) {
			end++
		}
		value, err := strconv.ParseFloat(s[pos:end], 64)
		if err != nil {
			return nil, 0, false
		}
		c.value = value
		pos = end
		conditions = append(conditions, c)

		if pos < len(s) && s[pos] == '?' {
			return conditions, pos + 1, true
		}
	}
}

func evaluateConditions(conditions []comparison, n float64) bool {
	result := false
	for i, c := range conditions {
		holds := c.holds(n)
		switch {
		case i == 0:
			result = holds
		case c.or:
			result = result || holds
		default:
			result = result && holds
		}
	}
	return result
}

func (c comparison) holds(n float64) bool {
	switch c.op {
	case "==":
		return n == c.value
	case "!=":
		return n != c.value
	case "<":
		return n < c.value
	case "<=":
		return n <= c.value
	case ">":
		return n > c.value
	case ">=":
		return n >= c.value
	}
	return false
}
