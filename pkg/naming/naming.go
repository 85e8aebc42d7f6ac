package naming

import (
	"reflect"
	"strings"
)

// Null is returned for absent names: nil types, values and pointers, and
// unnamed types.
const Null = "null"

// upperToLower maps ASCII capitals to their lowercase form.
var upperToLower = map[byte]byte{
	'A': 'a', 'B': 'b', 'C': 'c', 'D': 'd', 'E': 'e', 'F': 'f', 'G': 'g',
	'H': 'h', 'I': 'i', 'J': 'j', 'K': 'k', 'L': 'l', 'M': 'm', 'N': 'n',
	'O': 'o', 'P': 'p', 'Q': 'q', 'R': 'r', 'S': 's', 'T': 't', 'U': 'u',
	'V': 'v', 'W': 'w', 'X': 'x', 'Y': 'y', 'Z': 'z',
}

// CamelName lowercases the first character of name when it is an ASCII
// uppercase letter. Any other name is returned unchanged.
//
//	CamelName("OrderApprovalRule") // "orderApprovalRule"
//	CamelName("URLValidator")      // "uRLValidator"
//	CamelName("Émile")             // "Émile"
func CamelName(name string) string {
	if name == "" {
		return ""
	}

	lower, ok := upperToLower[name[0]]
	if !ok {
		return name
	}

	return string(lower) + name[1:]
}

// CamelNamePtr is like [CamelName], but returns [Null] for a nil pointer.
func CamelNamePtr(name *string) string {
	if name == nil {
		return Null
	}

	return CamelName(*name)
}

// TypeCamelName returns the camel name of the type's simple (unqualified)
// name. Pointer types resolve to the name of the type they point to.
// Nil and unnamed types (struct literals, func types) return [Null].
func TypeCamelName(t reflect.Type) string {
	if t == nil {
		return Null
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := simpleName(t)
	if name == "" {
		return Null
	}

	return CamelName(name)
}

// CamelNameOf returns the camel name of the dynamic type of v.
// A nil interface value returns [Null].
func CamelNameOf(v any) string {
	return TypeCamelName(reflect.TypeOf(v))
}

// IsBlank reports whether s is empty or only contains whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// simpleName strips type arguments from generic type names, e.g.
// "Box[github.com/x/y.Item]" becomes "Box".
func simpleName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}

	return name
}
