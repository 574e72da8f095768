package migration

// Reset clears the registry between tests.
func Reset() func() {
	saved := registry
	registry = nil
	return func() { registry = saved }
}
