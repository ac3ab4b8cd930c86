package dom

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const controlSelector = "input, select, textarea"

func isControl(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "input", "select", "textarea":
		return true
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func inputType(n *html.Node) string {
	t, _ := attr(n, "type")
	return strings.ToLower(strings.TrimSpace(t))
}

// textOf concatenates the text nodes under n.
func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	walk(n)
	return b.String()
}

func optionValue(n *html.Node) string {
	if v, ok := attr(n, "value"); ok {
		return v
	}
	return strings.TrimSpace(textOf(n))
}

// defaultValue is the value a control holds before any edit, which is also
// the value a form reset returns it to.
func defaultValue(n *html.Node) string {
	switch n.Data {
	case "input":
		v, _ := attr(n, "value")
		return v
	case "textarea":
		return textOf(n)
	case "select":
		var first *html.Node
		var walk func(*html.Node) *html.Node
		walk = func(c *html.Node) *html.Node {
			for k := c.FirstChild; k != nil; k = k.NextSibling {
				if k.Type == html.ElementNode && k.Data == "option" {
					if first == nil {
						first = k
					}
					if hasAttr(k, "selected") {
						return k
					}
				}
				if found := walk(k); found != nil {
					return found
				}
			}
			return nil
		}
		if sel := walk(n); sel != nil {
			return optionValue(sel)
		}
		if first != nil {
			return optionValue(first)
		}
		return ""
	case "option":
		return optionValue(n)
	}
	return ""
}

// validControl applies the constraint subset the admin forms rely on:
// required, number ranges and steps, pattern, email shape and length limits.
// Disabled controls, buttons, hidden inputs and checkable inputs never block
// submission. A control the browser reported invalid fails regardless.
func (t *Tree) validControl(n *html.Node) bool {
	if hasAttr(n, "disabled") {
		return true
	}
	if t.invalid[n] {
		return false
	}
	typ := inputType(n)
	if n.Data == "input" {
		switch typ {
		case "hidden", "submit", "button", "reset", "image", "checkbox", "radio":
			return true
		}
	}

	v := defaultValue(n)
	if cur, ok := t.values[n]; ok {
		v = cur
	}
	if v == "" {
		return !hasAttr(n, "required")
	}

	if n.Data == "input" && typ == "number" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		if minStr, ok := attr(n, "min"); ok {
			if limit, err := strconv.ParseFloat(minStr, 64); err == nil && f < limit {
				return false
			}
		}
		if maxStr, ok := attr(n, "max"); ok {
			if limit, err := strconv.ParseFloat(maxStr, 64); err == nil && f > limit {
				return false
			}
		}
		if !onStep(n, f) {
			return false
		}
	}

	if n.Data == "input" && typ == "email" && !looksLikeEmail(v) {
		return false
	}

	if p, ok := attr(n, "pattern"); ok && n.Data == "input" {
		// Browsers ignore patterns that fail to compile.
		if re, err := regexp.Compile("^(?:" + p + ")$"); err == nil && !re.MatchString(v) {
			return false
		}
	}

	length := utf8.RuneCountInString(v)
	if s, ok := attr(n, "minlength"); ok {
		if limit, err := strconv.Atoi(s); err == nil && length < limit {
			return false
		}
	}
	if s, ok := attr(n, "maxlength"); ok {
		if limit, err := strconv.Atoi(s); err == nil && length > limit {
			return false
		}
	}
	return true
}

// onStep reports whether f sits on the number input's step grid. The step
// defaults to 1 and counts from min, then from the value attribute, then 0.
func onStep(n *html.Node, f float64) bool {
	step := 1.0
	if s, ok := attr(n, "step"); ok {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "any" {
			return true
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			step = v
		}
	}
	base := 0.0
	if s, ok := attr(n, "min"); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			base = v
		}
	} else if s, ok := attr(n, "value"); ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			base = v
		}
	}
	q := (f - base) / step
	return math.Abs(q-math.Round(q)) < 1e-9
}

func looksLikeEmail(v string) bool {
	if strings.ContainsAny(v, " \t\n") || strings.Count(v, "@") != 1 {
		return false
	}
	local, domain, _ := strings.Cut(v, "@")
	return local != "" && domain != ""
}
