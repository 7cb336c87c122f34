package privdata

import (
	"strings"

	"github.com/tidwall/pretty"
)

// Format renders v as indented JSON, keeping key order and number text as
// Marshal produces them.
func Format(v any) (string, error) {
	raw, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(pretty.Pretty(raw)), "\n"), nil
}
