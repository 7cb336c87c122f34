package textquery

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
)

// selectRegex keeps the first capture group when the pattern has one, the
// whole match otherwise.
func selectRegex(text, expression string, c *collector) {
	re := regexp.MustCompile(expression)
	group := 0
	if re.NumSubexp() > 0 {
		group = 1
	}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if !c.add(m[group]) {
			return
		}
	}
}

// selectForm returns the values of one key, or every "key=value" pair in key
// order for "*".
func selectForm(text, expression string, c *collector) error {
	values, err := url.ParseQuery(text)
	if err != nil {
		return fmt.Errorf("parse form data: %w", err)
	}

	if expression != "*" {
		for _, v := range values[expression] {
			if !c.add(v) {
				return nil
			}
		}
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range values[k] {
			if !c.add(k + "=" + v) {
				return nil
			}
		}
	}
	return nil
}
