package har

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	invschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const schemaResource = "har.schema.json"

// Schema returns the JSON Schema (Draft 2020-12) enforced by Decode. It is
// reflected from Document: every field without omitempty is required and
// untyped fields accept any value.
func Schema() *invschema.Schema {
	r := &invschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: true, // producers add comment, _initiator, ...
		DoNotReference:            true,
	}
	s := r.Reflect(&Document{})
	allowNullPostData(s)
	return s
}

// allowNullPostData lets request.postData be null, which decodes the same as
// an absent body.
func allowNullPostData(root *invschema.Schema) {
	req := schemaAt(root, "log", "entries", "[]", "request")
	if req == nil || req.Properties == nil {
		return
	}
	pd, ok := req.Properties.Get("postData")
	if !ok {
		return
	}
	req.Properties.Set("postData", &invschema.Schema{
		AnyOf: []*invschema.Schema{pd, {Type: "null"}},
	})
}

// schemaAt follows property names down from s. "[]" steps into array items.
func schemaAt(s *invschema.Schema, path ...string) *invschema.Schema {
	for _, name := range path {
		if s == nil {
			return nil
		}
		if name == "[]" {
			s = s.Items
			continue
		}
		if s.Properties == nil {
			return nil
		}
		next, ok := s.Properties.Get(name)
		if !ok {
			return nil
		}
		s = next
	}
	return s
}

// SchemaJSON returns Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}

var compiledSchema = sync.OnceValues(compileSchema)

func compileSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(Schema())
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaResource, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	return compiled, nil
}

// printer renders validation messages in English.
var printer = message.NewPrinter(language.English)

// violation is one leaf validation failure.
type violation struct {
	location string
	message  string
}

// validationParseError turns a schema validation failure into a ParseError
// pointing at the first failing location.
func validationParseError(err error) *ParseError {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ParseError{Err: err}
	}

	var leaves []violation
	collectViolations(verr, &leaves)
	if len(leaves) == 0 {
		return &ParseError{Err: err}
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[i].location < leaves[j].location
	})

	first := leaves[0]
	var msgs []string
	seen := make(map[string]bool)
	for _, v := range leaves {
		if v.location != first.location || seen[v.message] {
			continue
		}
		seen[v.message] = true
		msgs = append(msgs, v.message)
	}

	msg := strings.Join(msgs, "; ")
	if rest := countOtherLocations(leaves, first.location); rest > 0 {
		msg = fmt.Sprintf("%s (and %d more)", msg, rest)
	}

	return &ParseError{
		Location: first.location,
		Err:      errors.New(msg),
	}
}

// collectViolations gathers leaf errors (those without causes).
func collectViolations(err *jsonschema.ValidationError, out *[]violation) {
	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			loc := ""
			if len(err.InstanceLocation) > 0 {
				loc = "/" + strings.Join(err.InstanceLocation, "/")
			}
			*out = append(*out, violation{location: loc, message: msg})
		}
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}

func countOtherLocations(leaves []violation, except string) int {
	locs := make(map[string]bool)
	for _, v := range leaves {
		if v.location != except {
			locs[v.location] = true
		}
	}
	return len(locs)
}
