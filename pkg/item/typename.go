package item

import "reflect"

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
