// Package resource shapes models into API payloads. A transformer is a
// plain function from the model to a Map:
//
//	func Venue(v models.Venue) resource.Map {
//	    return resource.Map{"id": v.ID, "name": v.Name, "rating": v.RatingAverage}
//	}
//
//	c.Success(resource.One(Venue, venue))
//	c.Paginated(resource.Many(Venue, venues), page)
package resource

import "github.com/shashiranjanraj/canteen/pkg/collection"

// Map is the output of a transformer.
type Map = map[string]interface{}

// Transformer renders one value.
type Transformer[T any] func(T) Map

// One renders *v, or nil when v is nil so the field encodes as null.
func One[T any](t Transformer[T], v *T) Map {
	if v == nil {
		return nil
	}
	return t(*v)
}

// Many renders every element. An empty input gives [] rather than null.
func Many[T any](t Transformer[T], items []T) []Map {
	return collection.Map(items, t)
}

// With copies m and adds the extra keys, for payloads that wrap a resource.
func With(m Map, extra Map) Map {
	out := make(Map, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
