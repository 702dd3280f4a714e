package reactive

import "reflect"

// Same reports whether a write of b over a would be a no-op.
//
// Maps, slices, pointers and channels compare by identity, funcs by code
// pointer, everything else by value. Empty non-nil slices are never Same,
// so writing one always notifies. Values whose dynamic contents are not
// comparable (a struct holding a slice, say) fall back to reflect.DeepEqual.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ta.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		// Every empty slice may share one zero-size allocation, so pointers
		// cannot tell two of them apart. Only nil equals nil.
		if va.Len() == 0 && vb.Len() == 0 {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
