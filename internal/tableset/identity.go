package tableset

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// JoinPolicy selects how a postfix is attached to an identifier.
type JoinPolicy int

const (
	// JoinNone appends the postfix directly: "t202301" + "old" = "t202301old".
	JoinNone JoinPolicy = iota
	// JoinUnderscore inserts an underscore: "t202301_old".
	JoinUnderscore
)

// String returns the configuration spelling of the policy.
func (j JoinPolicy) String() string {
	switch j {
	case JoinNone:
		return "none"
	case JoinUnderscore:
		return "underscore"
	default:
		return "unknown"
	}
}

// ParseJoinPolicy accepts "none", "underscore" and "" (none).
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return JoinNone, nil
	case "underscore", "_":
		return JoinUnderscore, nil
	default:
		return JoinNone, errors.WithHint(
			errors.Newf("unknown postfix join policy %q", s),
			"use \"none\" or \"underscore\"")
	}
}

// Build concatenates a logical name and its partition tokens. Empty tokens
// simply vanish; nothing is validated or escaped.
func Build(name, year, month string) string {
	var b strings.Builder
	b.Grow(len(name) + len(year) + len(month))
	b.WriteString(name)
	b.WriteString(year)
	b.WriteString(month)
	return b.String()
}

// ApplyPostfix attaches postfix to id using the given join policy.
func ApplyPostfix(id, postfix string, join JoinPolicy) string {
	return id + joinSuffix(postfix, join)
}

// StripPostfix removes the joined postfix from id. A missing suffix is a
// contract violation and returns an assertion failure.
func StripPostfix(id, postfix string, join JoinPolicy) (string, error) {
	suffix := joinSuffix(postfix, join)
	base, ok := strings.CutSuffix(id, suffix)
	if !ok {
		return "", errors.AssertionFailedf("table %q does not end with postfix %q", id, suffix)
	}
	return base, nil
}

func joinSuffix(postfix string, join JoinPolicy) string {
	if join == JoinUnderscore {
		return "_" + postfix
	}
	return postfix
}
