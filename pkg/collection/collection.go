// Package collection holds generic slice helpers.
//
//	ids := collection.Map(orders, func(o models.Order) uint { return o.ID })
//	open := collection.Filter(items, func(it models.MenuItem) bool { return it.Available })
//	byOrder := collection.GroupBy(lines, func(l models.OrderLine) uint { return l.OrderID })
package collection

// Map transforms each element of s with fn. The result is never nil.
func Map[T, R any](s []T, fn func(T) R) []R {
	out := make([]R, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}

// Filter returns the elements of s for which fn is true.
func Filter[T any](s []T, fn func(T) bool) []T {
	var out []T
	for _, v := range s {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// GroupBy partitions s by the key fn returns, keeping input order per key.
func GroupBy[T any, K comparable](s []T, fn func(T) K) map[K][]T {
	out := make(map[K][]T)
	for _, v := range s {
		k := fn(v)
		out[k] = append(out[k], v)
	}
	return out
}

// Sum adds up fn over s.
func Sum[T any, N int | int64 | float64](s []T, fn func(T) N) N {
	var total N
	for _, v := range s {
		total += fn(v)
	}
	return total
}
