package utils

// Value dereferences v, yielding T's zero value for a nil pointer.
func Value[T any](v *T) T {
	var zero T
	if v != nil {
		zero = *v
	}
	return zero
}

// Ptr returns a pointer to a copy of v, for optional JSON fields.
func Ptr[T any](v T) *T {
	return &v
}
