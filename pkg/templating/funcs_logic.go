package templating

import "reflect"

func add(a, b int) int { return a + b }

func sub(a, b int) int { return a - b }

func inc(i int) int { return i + 1 }

func dec(i int) int { return i - 1 }

// and is true when every argument is.
func and(args ...bool) bool {
	for _, arg := range args {
		if !arg {
			return false
		}
	}
	return true
}

// or is true when any argument is.
func or(args ...bool) bool {
	for _, arg := range args {
		if arg {
			return true
		}
	}
	return false
}

func not(arg bool) bool { return !arg }

// isSet reports whether val is non-nil and not its type's zero value.
func isSet(val any) bool {
	v := reflect.ValueOf(val)
	if !v.IsValid() {
		return false
	}
	return !v.IsZero()
}

// list collects its arguments into a slice, for ranging over literals.
func list(args ...any) []any {
	return args
}

// defaultValue returns val unless it is unset, in which case it returns def.
// Called as {{default "x" .Title}}.
func defaultValue(def, val any) any {
	if isSet(val) {
		return val
	}
	return def
}
