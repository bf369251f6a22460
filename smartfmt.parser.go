package smartfmt

import (
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/itsatony/go-smartfmt/internal"
	"go.uber.org/zap"
)

// Parser turns template strings into Format trees. The selector and operator
// character sets can be extended by extensions during initialization; the
// rest of the grammar is fixed. A Parser is safe for concurrent use.
type Parser struct {
	mu              sync.RWMutex
	selectorChars   internal.CharSet
	operatorChars   internal.CharSet
	errorAction     ErrorAction
	maxDepth        int
	caseSensitivity CaseSensitivity
	onIssue         func(*ParsingIssue)
	onCharsChanged  func()
	logger          *zap.Logger
}

// NewParser creates a parser configured from settings.
func NewParser(settings Settings, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxDepth := settings.Parser.MaxNestingDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxNestingDepth
	}
	return &Parser{
		selectorChars:   internal.NewCharSet(internal.DefaultSelectorChars + settings.Parser.SelectorChars),
		operatorChars:   internal.NewCharSet(internal.DefaultOperatorChars + settings.Parser.OperatorChars),
		errorAction:     settings.Parser.ErrorAction,
		maxDepth:        maxDepth,
		caseSensitivity: settings.CaseSensitivity,
		logger:          logger,
	}
}

// AddSelectorChars allows additional characters in selector names. Grammar
// characters ({, }, :, ( and )) are ignored.
func (p *Parser) AddSelectorChars(chars string) {
	p.mu.Lock()
	p.selectorChars = p.selectorChars.With(stripGrammarChars(chars))
	p.mu.Unlock()
	p.charsChanged()
}

// AddOperatorChars allows additional characters between selectors. Grammar
// characters ({, }, :, ( and )) are ignored.
func (p *Parser) AddOperatorChars(chars string) {
	p.mu.Lock()
	p.operatorChars = p.operatorChars.With(stripGrammarChars(chars))
	p.mu.Unlock()
	p.charsChanged()
}

// charsChanged lets the engine drop formats parsed with the old sets
func (p *Parser) charsChanged() {
	if p.onCharsChanged != nil {
		p.onCharsChanged()
	}
}

// SelectorChars returns the custom selector characters in rune order
func (p *Parser) SelectorChars() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selectorChars.String()
}

// OperatorChars returns the operator characters in rune order
func (p *Parser) OperatorChars() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.operatorChars.String()
}

// ErrorAction returns the action applied to parse issues
func (p *Parser) ErrorAction() ErrorAction { return p.errorAction }

// MaxNestingDepth returns the placeholder nesting limit
func (p *Parser) MaxNestingDepth() int { return p.maxDepth }

// ParseFormat parses template. Explicit formatter names are validated
// against knownFormatterNames; a nil list accepts any name. With
// ErrorActionThrowError every issue is collected and returned in one error,
// otherwise faulty placeholders are replaced according to the action.
func (p *Parser) ParseFormat(template string, knownFormatterNames []string) (*Format, error) {
	p.logger.Debug(LogMsgParseStart, zap.Int(LogFieldTemplateLength, len(template)))

	p.mu.RLock()
	state := &parseState{
		parser:        p,
		tpl:           template,
		selectorChars: p.selectorChars,
		operatorChars: p.operatorChars,
	}
	p.mu.RUnlock()

	if knownFormatterNames != nil {
		state.known = make(map[string]struct{}, len(knownFormatterNames))
		for _, name := range knownFormatterNames {
			state.known[p.nameKey(name)] = struct{}{}
		}
	}

	format, _ := state.parseFormat(0, nil, 0)

	if len(state.issues) > 0 && p.errorAction == ErrorActionThrowError {
		return nil, NewParsingError(template, state.issues)
	}

	p.logger.Debug(LogMsgParseEnd,
		zap.Int(LogFieldItems, len(format.Items)),
		zap.Int(LogFieldIssues, len(state.issues)),
	)
	return format, nil
}

func (p *Parser) nameKey(name string) string {
	if p.caseSensitivity == CaseInsensitive {
		return strings.ToLower(name)
	}
	return name
}

// parseState holds the per-call scanning state
type parseState struct {
	parser        *Parser
	tpl           string
	known         map[string]struct{}
	selectorChars internal.CharSet
	operatorChars internal.CharSet
	issues        ParsingIssues
}

// parseFormat scans items from pos. Nested formats stop at their closing
// brace and return its index; the template format runs to the end.
func (s *parseState) parseFormat(pos int, parent *Placeholder, depth int) (*Format, int) {
	tpl := s.tpl
	n := len(tpl)
	nested := parent != nil
	format := newFormat(tpl, pos, parent)

	textStart := pos
	i := pos
	for i < n {
		c := tpl[i]
		switch {
		case c == OpenBrace:
			if !nested && i+1 < n && tpl[i+1] == OpenBrace {
				s.addText(format, textStart, i)
				format.add(newEscapedLiteral(tpl, i, i+2, string(OpenBrace)))
				i += 2
				textStart = i
				continue
			}
			s.addText(format, textStart, i)
			item, next := s.parsePlaceholder(format, i, depth)
			if item != nil {
				format.add(item)
			}
			i = next
			textStart = i

		case c == CloseBrace:
			s.addText(format, textStart, i)
			if nested {
				format.end = i
				return format, i
			}
			if i+1 < n && tpl[i+1] == CloseBrace {
				format.add(newEscapedLiteral(tpl, i, i+2, string(CloseBrace)))
				i += 2
				textStart = i
				continue
			}
			if item := s.fail(i, i+1, i, IssueTooManyClosingBraces, ErrMsgTooManyClosingBraces); item != nil {
				format.add(item)
			}
			i++
			textStart = i

		case c == EscapeChar && nested:
			if i+1 < n && isEscapable(rune(tpl[i+1])) {
				s.addText(format, textStart, i)
				format.add(newEscapedLiteral(tpl, i, i+2, tpl[i+1:i+2]))
				i += 2
				textStart = i
				continue
			}
			i++

		default:
			i++
		}
	}

	s.addText(format, textStart, n)
	format.end = n
	return format, n
}

// parsePlaceholder parses the placeholder opening at open and returns the
// item (nil when dropped by the error action) and the index after it.
func (s *parseState) parsePlaceholder(parent *Format, open int, depth int) (FormatItem, int) {
	tpl := s.tpl
	n := len(tpl)

	if depth >= s.parser.maxDepth {
		end := s.skipPlaceholder(open)
		return s.fail(open, end, open, IssueNestingTooDeep, ErrMsgNestingTooDeep), end
	}

	ph := &Placeholder{
		span:        span{base: tpl, start: open, end: open},
		Parent:      parent,
		NestedDepth: depth,
	}

	i := open + 1
	for {
		if i >= n {
			return s.fail(open, n, open, IssueMissingClosingBrace, ErrMsgMissingClosingBrace), n
		}
		r, w := utf8.DecodeRuneInString(tpl[i:])
		if r == FormatSeparator || r == CloseBrace {
			break
		}

		if s.isAlignment(r) {
			alignStart := i
			i += w
			for i < n && tpl[i] != FormatSeparator && tpl[i] != CloseBrace {
				i++
			}
			if i >= n {
				return s.fail(open, n, open, IssueMissingClosingBrace, ErrMsgMissingClosingBrace), n
			}
			alignment, err := strconv.Atoi(strings.TrimSpace(tpl[alignStart+w : i]))
			if err != nil {
				end := s.skipPlaceholder(open)
				return s.fail(open, end, alignStart, IssueInvalidAlignment, ErrMsgInvalidAlignment), end
			}
			ph.Alignment = alignment
			break
		}

		opStart := i
		for i < n {
			r, w = utf8.DecodeRuneInString(tpl[i:])
			if s.isAlignment(r) || !s.isOperator(r) {
				break
			}
			i += w
			if r == internal.CharIndexOpen {
				break
			}
		}
		op := tpl[opStart:i]
		if i >= n {
			return s.fail(open, n, open, IssueMissingClosingBrace, ErrMsgMissingClosingBrace), n
		}

		if strings.HasSuffix(op, IndexOperator) {
			textStart := i
			for i < n && tpl[i] != ListIndexEndChar {
				r, w = utf8.DecodeRuneInString(tpl[i:])
				if !s.isSelectorChar(r) {
					break
				}
				i += w
			}
			if i >= n || tpl[i] != ListIndexEndChar || i == textStart {
				end := s.skipPlaceholder(open)
				return s.fail(open, end, i, IssueInvalidCharactersInSelector, ErrMsgInvalidSelectorChars), end
			}
			ph.Selectors = append(ph.Selectors, &Selector{
				span:          span{base: tpl, start: textStart, end: i},
				Text:          tpl[textStart:i],
				Operator:      op,
				SelectorIndex: len(ph.Selectors),
				operatorStart: opStart,
			})
			i++ // closing bracket
			continue
		}

		r, w = utf8.DecodeRuneInString(tpl[i:])
		if r == FormatSeparator || r == CloseBrace || s.isAlignment(r) {
			if op != "" {
				end := s.skipPlaceholder(open)
				return s.fail(open, end, opStart, IssueTrailingOperatorsInSelector, ErrMsgTrailingOperators), end
			}
			continue
		}

		textStart := i
		for i < n {
			r, w = utf8.DecodeRuneInString(tpl[i:])
			if !s.isSelectorChar(r) {
				break
			}
			i += w
		}
		if i == textStart {
			end := s.skipPlaceholder(open)
			return s.fail(open, end, i, IssueInvalidCharactersInSelector, ErrMsgInvalidSelectorChars), end
		}
		ph.Selectors = append(ph.Selectors, &Selector{
			span:          span{base: tpl, start: textStart, end: i},
			Text:          tpl[textStart:i],
			Operator:      op,
			SelectorIndex: len(ph.Selectors),
			operatorStart: opStart,
		})
	}

	if tpl[i] == CloseBrace {
		ph.end = i + 1
		return ph, i + 1
	}

	// format separator
	i++
	formatStart, item, next := s.parseFormatterCall(ph, open, i)
	if item != nil || next > 0 {
		return item, next
	}

	format, end := s.parseFormat(formatStart, ph, depth+1)
	if end >= n {
		return s.fail(open, n, open, IssueMissingClosingBrace, ErrMsgMissingClosingBrace), n
	}
	ph.Format = format
	ph.end = end + 1
	return ph, end + 1
}

// parseFormatterCall detects "name(options)" or a known "name:" right after
// the format separator. It returns where the nested format starts, or a
// replacement item and next index when the call is faulty.
func (s *parseState) parseFormatterCall(ph *Placeholder, open, pos int) (int, FormatItem, int) {
	tpl := s.tpl
	n := len(tpl)

	i := pos
	for i < n {
		r, w := utf8.DecodeRuneInString(tpl[i:])
		if !internal.IsFormatterNameChar(r) {
			break
		}
		i += w
	}
	name := tpl[pos:i]
	if name == "" || i >= n {
		return pos, nil, 0
	}

	switch tpl[i] {
	case OptionsOpen:
		j := i + 1
		for j < n && tpl[j] != OptionsClose {
			if tpl[j] == OpenBrace || tpl[j] == CloseBrace {
				break
			}
			if tpl[j] == EscapeChar && j+1 < n {
				j += 2
				continue
			}
			j++
		}
		if j >= n || tpl[j] != OptionsClose {
			end := s.skipPlaceholder(open)
			return 0, s.fail(open, end, i, IssueMissingClosingParenthesis, ErrMsgMissingClosingParenthesis), end
		}
		after := j + 1
		if after >= n || (tpl[after] != FormatSeparator && tpl[after] != CloseBrace) {
			return pos, nil, 0
		}
		if !s.isKnown(name) {
			end := s.skipPlaceholder(open)
			return 0, s.fail(open, end, pos, IssueUnknownFormatterName, ErrMsgUnknownFormatterName), end
		}
		ph.FormatterName = name
		ph.FormatterOptionsRaw = tpl[i+1 : j]
		if tpl[after] == FormatSeparator {
			return after + 1, nil, 0
		}
		return after, nil, 0

	case FormatSeparator:
		if !s.isKnown(name) {
			return pos, nil, 0
		}
		ph.FormatterName = name
		return i + 1, nil, 0
	}
	return pos, nil, 0
}

// skipPlaceholder returns the index after the brace closing the placeholder
// opened at open, or the template length.
func (s *parseState) skipPlaceholder(open int) int {
	tpl := s.tpl
	depth := 0
	for i := open; i < len(tpl); i++ {
		switch tpl[i] {
		case EscapeChar:
			if depth > 0 && i+1 < len(tpl) && isEscapable(rune(tpl[i+1])) {
				i++
			}
		case OpenBrace:
			depth++
		case CloseBrace:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(tpl)
}

// fail records an issue for the region [start, end) and returns the item the
// error action puts in its place.
func (s *parseState) fail(start, end, at int, kind, msg string) FormatItem {
	issue := &ParsingIssue{Issue: kind, Index: at, Length: end - at, Message: msg}
	s.issues = append(s.issues, issue)

	p := s.parser
	if p.onIssue != nil {
		p.onIssue(issue)
	}
	if p.errorAction != ErrorActionThrowError {
		p.logger.Debug(LogMsgParseIssueHandled,
			zap.String(LogFieldIssue, kind),
			zap.Int(LogFieldIndex, at),
			zap.Stringer(LogFieldAction, p.errorAction),
		)
	}

	switch p.errorAction {
	case ErrorActionMaintainTokens:
		return newMessageLiteral(s.tpl, start, end, s.tpl[start:end])
	case ErrorActionOutputErrorInResult:
		return newMessageLiteral(s.tpl, start, end, inlineError(msg, at))
	default:
		return nil
	}
}

func (s *parseState) addText(format *Format, start, end int) {
	if end > start {
		format.add(newLiteral(s.tpl, start, end))
	}
}

func (s *parseState) isKnown(name string) bool {
	if s.known == nil {
		return true
	}
	_, ok := s.known[s.parser.nameKey(name)]
	return ok
}

// isSelectorChar gives selector characters precedence over operators
func (s *parseState) isSelectorChar(r rune) bool {
	return internal.IsSelectorChar(r, s.selectorChars)
}

func (s *parseState) isAlignment(r rune) bool {
	return r == AlignmentOperator && s.operatorChars.Contains(r)
}

func (s *parseState) isOperator(r rune) bool {
	return !s.isSelectorChar(r) && s.operatorChars.Contains(r)
}

// add appends an item and tracks nested placeholders
func (f *Format) add(item FormatItem) {
	f.Items = append(f.Items, item)
	if _, ok := item.(*Placeholder); ok {
		f.HasNested = true
	}
}

func isEscapable(r rune) bool {
	return strings.ContainsRune(internal.EscapableChars, r)
}

func stripGrammarChars(chars string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case OpenBrace, CloseBrace, FormatSeparator, OptionsOpen, OptionsClose:
			return -1
		}
		return r
	}, chars)
}
