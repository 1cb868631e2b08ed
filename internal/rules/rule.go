package rules

import "fmt"

// RuleID identifies one of the whitespace rules. The set is closed; adding a rule
// means adding a constant here and a case to every switch below.
type RuleID uint8

const (
	// NoTrailingWhitespace: lines never end with whitespace.
	NoTrailingWhitespace RuleID = iota
	// IndentUsingTabs: indentation uses tabs, spaces only for alignment.
	IndentUsingTabs
	// NoSpacesBeforeTabs: a space is never followed by a tab.
	NoSpacesBeforeTabs
	// OneTabIndent: indentation deepens by at most one tab per line.
	OneTabIndent

	ruleCount
)

// AllRules returns every rule in declaration order.
func AllRules() []RuleID {
	return []RuleID{NoTrailingWhitespace, IndentUsingTabs, NoSpacesBeforeTabs, OneTabIndent}
}

func (r RuleID) String() string {
	switch r {
	case NoTrailingWhitespace:
		return "no-trailing-whitespace"
	case IndentUsingTabs:
		return "indent-using-tabs"
	case NoSpacesBeforeTabs:
		return "no-spaces-before-tabs"
	case OneTabIndent:
		return "one-tab-indent"
	default:
		return fmt.Sprintf("rule(%d)", uint8(r))
	}
}

// Code is the stable short code printed next to diagnostics.
func (r RuleID) Code() string {
	switch r {
	case NoTrailingWhitespace:
		return "WS001"
	case IndentUsingTabs:
		return "WS002"
	case NoSpacesBeforeTabs:
		return "WS003"
	case OneTabIndent:
		return "WS004"
	default:
		return "WS000"
	}
}

// Description is a one-line summary suitable as a diagnostic message.
func (r RuleID) Description() string {
	switch r {
	case NoTrailingWhitespace:
		return "trailing whitespace"
	case IndentUsingTabs:
		return "indentation should use tabs"
	case NoSpacesBeforeTabs:
		return "space before tab"
	case OneTabIndent:
		return "indentation deepens by more than one tab"
	default:
		return "unknown rule"
	}
}

// Valid reports whether r is one of the four rules.
func (r RuleID) Valid() bool {
	return r < ruleCount
}

// ParseRuleID accepts a rule name or its code.
func ParseRuleID(s string) (RuleID, error) {
	for _, r := range AllRules() {
		if s == r.String() || s == r.Code() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rule %q", s)
}

// Reason records which branch of a rule fired. Only IndentUsingTabs has more than one.
type Reason uint8

const (
	// ReasonNone: the rule has a single branch.
	ReasonNone Reason = iota
	// ReasonFewerTabs: fewer leading tabs than the previous line, so no space is legitimate.
	ReasonFewerTabs
	// ReasonPastPreviousLine: the spaces reach beyond the last character of the previous line.
	ReasonPastPreviousLine
	// ReasonAfterOpenBrace: a new block starts, there is nothing above to align with.
	ReasonAfterOpenBrace
)

func (r Reason) String() string {
	switch r {
	case ReasonFewerTabs:
		return "fewer-tabs"
	case ReasonPastPreviousLine:
		return "past-previous-line"
	case ReasonAfterOpenBrace:
		return "after-open-brace"
	default:
		return "none"
	}
}
