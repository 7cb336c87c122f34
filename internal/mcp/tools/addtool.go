package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking its output type with
// CheckOutputSchema.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when ValidateOutput rejects T.
func CheckOutputSchema[T any](toolName string) {
	if err := ValidateOutput[T](); err != nil {
		panic(fmt.Sprintf("AddTool %q: %v", toolName, err))
	}
}

// ValidateOutput reports output types the SDK would reject at call time.
// The zero value must pass the schema inferred for T: a nil slice marshals
// as null where the schema wants an array, so slice fields need omitzero.
// json.RawMessage is inferred as an array of bytes and is refused outright.
// Untyped any outputs and types the generator cannot handle are not checked.
func ValidateOutput[T any]() error {
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Interface {
		return nil
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessagePaths(rt); len(paths) > 0 {
		return fmt.Errorf("output type %s has json.RawMessage at %s; decode into any instead",
			rt, strings.Join(paths, ", "))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return nil
	}
	var zero map[string]any
	if err := json.Unmarshal(data, &zero); err != nil {
		return nil
	}
	if err := resolved.Validate(&zero); err != nil {
		return fmt.Errorf("zero value of %s (%s) fails its schema: %w; add omitzero to slice fields", rt, data, err)
	}
	return nil
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths walks t and returns the dotted path of every
// json.RawMessage it can reach.
func rawMessagePaths(t reflect.Type) []string {
	var (
		found  []string
		active = map[reflect.Type]bool{}
		walk   func(t reflect.Type, path string)
	)
	walk = func(t reflect.Type, path string) {
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t == rawMessageType {
			found = append(found, path)
			return
		}
		if active[t] {
			return
		}
		active[t] = true
		defer delete(active, t)

		switch t.Kind() {
		case reflect.Struct:
			for i := range t.NumField() {
				if f := t.Field(i); f.IsExported() {
					walk(f.Type, joinPath(path, f.Name))
				}
			}
		case reflect.Slice, reflect.Array:
			walk(t.Elem(), joinPath(path, "[]"))
		case reflect.Map:
			walk(t.Elem(), joinPath(path, "[value]"))
		}
	}
	walk(t, "")
	return found
}

func joinPath(path, elem string) string {
	if path == "" {
		return elem
	}
	return path + "." + elem
}
