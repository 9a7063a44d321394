// Package media evaluates viewport conditions such as "(max-width: 600px)"
// and calls back when their truth value changes.
package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rapidmidiex/rmxpiano/layout"
)

type (
	feature int

	clause struct {
		feature feature
		value   float64
	}

	// Query is a comma separated list of conditions; it matches when any of
	// them does. A condition matches when all of its clauses do.
	Query struct {
		text       string
		conditions [][]clause
	}
)

const (
	minWidth feature = iota
	maxWidth
	minHeight
	maxHeight
	portrait
	landscape
)

var ErrInvalidQuery = errors.New("invalid media query")

// Parse understands min/max width/height in px (unit optional), orientation,
// "and", comma lists and the media types "all" and "screen".
func Parse(text string) (Query, error) {
	q := Query{text: text}
	for _, part := range strings.Split(text, ",") {
		cond, err := parseCondition(part)
		if err != nil {
			return Query{}, fmt.Errorf("%w: %q: %v", ErrInvalidQuery, text, err)
		}
		q.conditions = append(q.conditions, cond)
	}
	return q, nil
}

func parseCondition(s string) ([]clause, error) {
	var out []clause
	for i, tok := range strings.Split(strings.ToLower(s), " and ") {
		tok = strings.TrimSpace(tok)
		if i == 0 && (tok == "all" || tok == "screen") {
			continue
		}
		if !strings.HasPrefix(tok, "(") || !strings.HasSuffix(tok, ")") {
			return nil, fmt.Errorf("expected (feature: value), got %q", tok)
		}
		name, value, ok := strings.Cut(tok[1:len(tok)-1], ":")
		if !ok {
			return nil, fmt.Errorf("missing value in %q", tok)
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)

		if name == "orientation" {
			switch value {
			case "portrait":
				out = append(out, clause{feature: portrait})
			case "landscape":
				out = append(out, clause{feature: landscape})
			default:
				return nil, fmt.Errorf("unknown orientation %q", value)
			}
			continue
		}

		var f feature
		switch name {
		case "min-width":
			f = minWidth
		case "max-width":
			f = maxWidth
		case "min-height":
			f = minHeight
		case "max-height":
			f = maxHeight
		default:
			return nil, fmt.Errorf("unknown feature %q", name)
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
		if err != nil {
			return nil, fmt.Errorf("bad length %q", value)
		}
		out = append(out, clause{feature: f, value: v})
	}
	if len(out) == 0 {
		return nil, errors.New("empty condition")
	}
	return out, nil
}

func (q Query) String() string { return q.text }

func (q Query) Matches(vp layout.Viewport) bool {
	for _, cond := range q.conditions {
		if matchAll(cond, vp) {
			return true
		}
	}
	return false
}

func matchAll(cond []clause, vp layout.Viewport) bool {
	for _, c := range cond {
		if !c.match(vp) {
			return false
		}
	}
	return true
}

func (c clause) match(vp layout.Viewport) bool {
	switch c.feature {
	case minWidth:
		return vp.Width >= c.value
	case maxWidth:
		return vp.Width <= c.value
	case minHeight:
		return vp.Height >= c.value
	case maxHeight:
		return vp.Height <= c.value
	case portrait:
		return vp.Height >= vp.Width
	case landscape:
		return vp.Width > vp.Height
	}
	return false
}
