package graphql_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/canteen/pkg/graphql"
)

func schema(t *testing.T) gql.Schema {
	t.Helper()
	s, err := graphql.NewSchema(gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"greet": &gql.Field{
				Type: gql.String,
				Args: gql.FieldConfigArgument{"name": &gql.ArgumentConfig{Type: gql.String}},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					name, _ := p.Args["name"].(string)
					return "hello " + name, nil
				},
			},
		},
	}))
	require.NoError(t, err)
	return s
}

func TestHandlerPost(t *testing.T) {
	body := `{"query":"query($n:String){ greet(name:$n) }","variables":{"n":"canteen"}}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	rec := httptest.NewRecorder()

	graphql.Handler(schema(t))(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "hello canteen", out.Data["greet"])
}

func TestHandlerReportsQueryErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/graphql?query={nope}", nil)
	rec := httptest.NewRecorder()

	graphql.Handler(schema(t))(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"errors"`)
}

func TestHandlerRejectsOtherMethods(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/graphql", nil)
	rec := httptest.NewRecorder()

	graphql.Handler(schema(t))(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
