package region

import (
	"fmt"
	"reflect"
)

// FuncValue stands in for a JS function in a materialised property graph.
// The browser layer produces these; sanitisation collapses them to the
// "[Function]" placeholder.
type FuncValue struct {
	Name        string
	DisplayName string
}

// reactElementKey marks a materialised React element object.
const reactElementKey = "$$typeof"

// Placeholder tokens. These are a deliberate one-way redaction: captured
// metadata stays small and non-sensitive, and there is no way back to the
// original value.
const (
	PlaceholderFunction = "[Function]"
	PlaceholderObject   = "[Object]"
	PlaceholderElement  = "[Element]"
)

// Sanitize maps a raw value to its captured form: primitives pass through
// untouched, everything else becomes a fixed placeholder token.
func Sanitize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x
	case FuncValue:
		return PlaceholderFunction
	case *FuncValue:
		return PlaceholderFunction
	case map[string]any:
		if _, ok := x[reactElementKey]; ok {
			return PlaceholderElement
		}
		return PlaceholderObject
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Func:
		return PlaceholderFunction
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[Array(%d)]", rv.Len())
	case reflect.Map, reflect.Struct, reflect.Pointer, reflect.Interface:
		return PlaceholderObject
	default:
		return PlaceholderObject
	}
}

// SanitizeMap sanitises every value of a property map. A nil or empty map
// yields nil so callers can drop absent data cleanly.
func SanitizeMap(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Sanitize(v)
	}
	return out
}
