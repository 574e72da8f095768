// Package schema is the read-only GraphQL view of the catalogue served on
// /graphql.
package schema

import (
	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/canteen/app/models"
	"github.com/shashiranjanraj/canteen/app/repositories"
	"github.com/shashiranjanraj/canteen/app/services"
	gql "github.com/shashiranjanraj/canteen/pkg/graphql"
	"github.com/shashiranjanraj/canteen/pkg/storage"
)

var menuItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "MenuItem",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"description": &graphql.Field{Type: graphql.String},
		"available":   &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"rating":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"ratingCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"imageUrl":    &graphql.Field{Type: graphql.String},
		"venueId":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

func menuItem(it models.MenuItem) map[string]interface{} {
	return map[string]interface{}{
		"id":          int(it.ID),
		"name":        it.Name,
		"price":       int(it.Price),
		"description": it.Description,
		"available":   it.Available,
		"rating":      it.RatingAverage,
		"ratingCount": int(it.RatingCount),
		"imageUrl":    storage.URL(it.ImagePath),
		"venueId":     int(it.VenueID),
	}
}

func menuItems(items []models.MenuItem) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, menuItem(it))
	}
	return out
}

// New builds the schema over catalog.
func New(catalog *services.CatalogService) (graphql.Schema, error) {
	venueType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Venue",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"rating":      &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"ratingCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"menu": &graphql.Field{
				Type: graphql.NewList(menuItemType),
				Args: graphql.FieldConfigArgument{
					"available": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					src := p.Source.(map[string]interface{})
					id := uint(src["id"].(int))
					f := repositories.ItemFilter{VenueID: &id}
					if a, ok := p.Args["available"].(bool); ok {
						f.Available = &a
					}
					items, err := catalog.ListItems(p.Context, f)
					if err != nil {
						return nil, err
					}
					return menuItems(items), nil
				},
			},
		},
	})

	venue := func(v models.Venue) map[string]interface{} {
		return map[string]interface{}{
			"id":          int(v.ID),
			"name":        v.Name,
			"rating":      v.RatingAverage,
			"ratingCount": int(v.RatingCount),
		}
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"venues": &graphql.Field{
				Type: graphql.NewList(venueType),
				Args: graphql.FieldConfigArgument{
					"search":  &graphql.ArgumentConfig{Type: graphql.String},
					"page":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"perPage": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 15},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					search, _ := p.Args["search"].(string)
					page, _ := p.Args["page"].(int)
					perPage, _ := p.Args["perPage"].(int)
					res, err := catalog.ListVenues(p.Context, search, page, perPage)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(res.Items))
					for _, v := range res.Items {
						out = append(out, venue(v))
					}
					return out, nil
				},
			},
			"venue": &graphql.Field{
				Type: venueType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v, err := catalog.Venue(p.Context, uint(p.Args["id"].(int)))
					if err != nil {
						return nil, err
					}
					return venue(*v), nil
				},
			},
			"menuItems": &graphql.Field{
				Type: graphql.NewList(menuItemType),
				Args: graphql.FieldConfigArgument{
					"venueId":   &graphql.ArgumentConfig{Type: graphql.Int},
					"available": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var f repositories.ItemFilter
					if id, ok := p.Args["venueId"].(int); ok {
						venueID := uint(id)
						f.VenueID = &venueID
					}
					if a, ok := p.Args["available"].(bool); ok {
						f.Available = &a
					}
					items, err := catalog.ListItems(p.Context, f)
					if err != nil {
						return nil, err
					}
					return menuItems(items), nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

// Must builds the schema over db and panics on a schema definition error.
func Must(db *gorm.DB) graphql.Schema {
	s, err := New(services.NewCatalogService(db))
	if err != nil {
		panic(err)
	}
	return s
}
