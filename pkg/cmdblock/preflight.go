package cmdblock

import "github.com/openpeace/peace/pkg/resource"

// CheckResourcePresent is the building block for a Block's CheckInputs: it
// reports whether a value of type T is present in rm, wrapping a miss as
// an *InputUnavailable naming T's short and full type names.
func CheckResourcePresent[T any](rm *resource.Map) error {
	if err := resource.CheckPresent[T](rm); err != nil {
		return &InputUnavailable{
			ShortName: resource.TypeName[T](),
			FullName:  resource.TypeNameFull[T](),
			Cause:     err,
		}
	}
	return nil
}
