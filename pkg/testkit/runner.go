package testkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run fires one scenario at handler, asserts it, and stores captures in vars.
// It reports whether every assertion passed.
func Run(t *testing.T, handler http.Handler, s Scenario, vars Vars) bool {
	t.Helper()

	var body *strings.Reader
	if len(s.Body) > 0 {
		body = strings.NewReader(vars.expandBody(s.Body))
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(s.Method, vars.expand(s.URL), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, vars.expand(v))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	ok := assert.Equal(t, s.ExpectedCode, rec.Code, "[%s] status code\nbody: %s", s.Name, rec.Body.String())
	if len(s.Expect) == 0 && len(s.Capture) == 0 {
		return ok
	}

	var got interface{}
	if !assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), "[%s] response is not JSON: %s", s.Name, rec.Body.String()) {
		return false
	}

	if len(s.Expect) > 0 {
		var want interface{}
		require.NoError(t, json.Unmarshal([]byte(vars.expandBody(s.Expect)), &want), "[%s] expect is not JSON", s.Name)
		for _, d := range subsetDiff("", want, got) {
			ok = false
			t.Errorf("[%s] %s", s.Name, d)
		}
	}

	for name, path := range s.Capture {
		v, found := lookup(got, path)
		if !assert.True(t, found, "[%s] capture %q: no value at %q", s.Name, name, path) {
			ok = false
			continue
		}
		vars[name] = scalar(v)
	}
	return ok
}

// RunFile runs the scenarios of one file in order as subtests. A failing
// step stops the flow since later steps depend on its captures.
func RunFile(t *testing.T, handler http.Handler, path string, vars Vars) {
	t.Helper()
	scenarios, err := LoadFile(path)
	require.NoError(t, err)

	local := vars.clone()
	for _, s := range scenarios {
		s := s
		if !t.Run(s.Name, func(t *testing.T) { Run(t, handler, s, local) }) {
			return
		}
	}
}

// RunDir runs every scenario file in dir as its own subtest. Each file
// starts from a copy of vars.
func RunDir(t *testing.T, handler http.Handler, dir string, vars Vars) {
	t.Helper()
	files, err := Files(dir)
	require.NoError(t, err)
	for _, f := range files {
		f := f
		t.Run(strings.TrimSuffix(filepath.Base(f), ".json"), func(t *testing.T) {
			RunFile(t, handler, f, vars)
		})
	}
}
