// Package testkit drives API tests from JSON scenario files.
//
// A scenario file holds an ordered array of requests that share variables,
// so one file can describe a whole flow (register, add to basket, checkout):
//
//	[
//	  {"name": "login", "method": "POST", "url": "/api/auth/login",
//	   "body": {"username": "asha", "password": "secret123"},
//	   "expectedCode": 200,
//	   "capture": {"token": "data.tokens.access"}},
//	  {"name": "basket", "url": "/api/basket",
//	   "headers": {"Authorization": "Bearer {{token}}"},
//	   "expectedCode": 200, "expect": {"data": {"lines": []}}}
//	]
//
// "{{name}}" is replaced anywhere in url, headers and body. Inside a body,
// the JSON string "{{=name}}" is replaced without quotes so numeric ids can
// be sent as numbers.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Scenario struct {
	Name         string            `json:"name"`
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	Headers      map[string]string `json:"headers"`
	Body         json.RawMessage   `json:"body"`
	ExpectedCode int               `json:"expectedCode"`

	// Expect is matched as a subset of the response body: every key present
	// here must be present and equal there; extra response keys are ignored.
	Expect json.RawMessage `json:"expect"`

	// Capture stores response values into variables, keyed by variable name,
	// addressed by dotted path ("data.items.0.id").
	Capture map[string]string `json:"capture"`
}

// Vars are the substitution variables shared by the scenarios of one file.
type Vars map[string]string

func (v Vars) clone() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

func (v Vars) expand(s string) string {
	for k, val := range v {
		s = strings.ReplaceAll(s, "{{"+k+"}}", val)
	}
	return s
}

func (v Vars) expandBody(raw json.RawMessage) string {
	s := string(raw)
	for k, val := range v {
		s = strings.ReplaceAll(s, `"{{=`+k+`}}"`, val)
	}
	return v.expand(s)
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("%s: url is required", s.Name)
	}
	if s.Method == "" {
		s.Method = "GET"
	}
	s.Method = strings.ToUpper(s.Method)
	if s.ExpectedCode == 0 {
		s.ExpectedCode = 200
	}
	return nil
}

// LoadFile reads the scenario array in path.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", path, err)
	}
	var out []Scenario
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", path, err)
	}
	for i := range out {
		if err := out[i].validate(); err != nil {
			return nil, fmt.Errorf("testkit: %q[%d]: %w", path, i, err)
		}
	}
	return out, nil
}

// Files lists the scenario files in dir in name order.
func Files(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("testkit: no scenario files in %q", dir)
	}
	return files, nil
}
