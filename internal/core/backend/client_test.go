package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockServer = "http://mock.testgen.local"

const suiteBody = `{
  "suite_name": "Login",
  "cases": [
    {
      "id": "TC001",
      "title": "Valid login",
      "description": "User logs in",
      "preconditions": "Account exists",
      "steps": ["Open page", "Enter credentials", "Submit"],
      "expected_result": "Dashboard shown",
      "priority": "High"
    }
  ]
}`

func newMockedClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)
	return NewClient(mockServer+"/", append([]Option{WithHTTPClient(hc)}, opts...)...)
}

func TestNewClientNormalizesBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8000", NewClient("localhost:8000/").BaseURL())
	assert.Equal(t, "https://api.example.com", NewClient(" https://api.example.com ").BaseURL())
}

func TestListModels(t *testing.T) {
	c := newMockedClient(t)

	t.Run("should return models and warning", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockServer+"/models",
			httpmock.NewStringResponder(200, `{"models":["gemma3:1b","llama3.2"],"warning":"runtime offline"}`))

		list, err := c.ListModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"gemma3:1b", "llama3.2"}, list.Models)
		assert.Equal(t, "runtime offline", list.Warning)
	})

	t.Run("should return empty slice when models missing", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockServer+"/models",
			httpmock.NewStringResponder(200, `{}`))

		list, err := c.ListModels(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, list.Models)
		assert.Empty(t, list.Models)
	})

	t.Run("should fail on server error", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockServer+"/models",
			httpmock.NewStringResponder(502, `bad gateway`))

		_, err := c.ListModels(context.Background())
		require.Error(t, err)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 502, apiErr.StatusCode)
		assert.Empty(t, apiErr.Detail)
	})

	t.Run("should fail on connection error", func(t *testing.T) {
		httpmock.RegisterResponder("GET", mockServer+"/models",
			httpmock.NewErrorResponder(errors.New("connection refused")))

		_, err := c.ListModels(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestGenerate(t *testing.T) {
	c := newMockedClient(t)

	t.Run("should post requirement and model", func(t *testing.T) {
		httpmock.RegisterResponder("POST", mockServer+"/generate",
			func(req *http.Request) (*http.Response, error) {
				var body GenerateRequest
				if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
					return httpmock.NewStringResponse(400, `{"detail":"bad body"}`), nil
				}
				if body.Requirement != "Login feature" || body.Model != "llama3.2" {
					return httpmock.NewStringResponse(400, `{"detail":"unexpected body"}`), nil
				}
				if req.Header.Get("Content-Type") != "application/json" {
					return httpmock.NewStringResponse(415, `{"detail":"content type"}`), nil
				}
				return httpmock.NewStringResponse(200, suiteBody), nil
			})

		s, err := c.Generate(context.Background(), GenerateRequest{Requirement: "Login feature", Model: "llama3.2"})
		require.NoError(t, err)
		assert.Equal(t, "Login", s.SuiteName)
		require.Len(t, s.Cases, 1)
		assert.Equal(t, []string{"Open page", "Enter credentials", "Submit"}, s.Cases[0].Steps)
		assert.Equal(t, "Dashboard shown", s.Cases[0].ExpectedResult)
	})

	t.Run("should surface string detail", func(t *testing.T) {
		httpmock.RegisterResponder("POST", mockServer+"/generate",
			httpmock.NewStringResponder(500, `{"detail":"Generation failed: model not found"}`))

		_, err := c.Generate(context.Background(), GenerateRequest{Requirement: "x", Model: "missing"})
		require.Error(t, err)
		detail, ok := ErrorDetail(err)
		require.True(t, ok)
		assert.Equal(t, "Generation failed: model not found", detail)
	})

	t.Run("should join validation details", func(t *testing.T) {
		httpmock.RegisterResponder("POST", mockServer+"/generate",
			httpmock.NewStringResponder(422, `{"detail":[{"loc":["body","requirement"],"msg":"field required"},{"msg":"model must be a string"}]}`))

		_, err := c.Generate(context.Background(), GenerateRequest{})
		detail, ok := ErrorDetail(err)
		require.True(t, ok)
		assert.Equal(t, "field required; model must be a string", detail)
	})

	t.Run("should report no detail for plain bodies", func(t *testing.T) {
		httpmock.RegisterResponder("POST", mockServer+"/generate",
			httpmock.NewStringResponder(500, `Internal Server Error`))

		_, err := c.Generate(context.Background(), GenerateRequest{Requirement: "x"})
		require.Error(t, err)
		_, ok := ErrorDetail(err)
		assert.False(t, ok)
	})

	t.Run("should fail on malformed suite", func(t *testing.T) {
		httpmock.RegisterResponder("POST", mockServer+"/generate",
			httpmock.NewStringResponder(200, `{"suite_name": 3`))

		_, err := c.Generate(context.Background(), GenerateRequest{Requirement: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse test suite")
	})
}

func TestHealth(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", mockServer+"/health",
		httpmock.NewStringResponder(200, `{"status":"online"}`))

	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "online", status)

	httpmock.RegisterResponder("GET", mockServer+"/health",
		httpmock.NewStringResponder(200, `{}`))
	_, err = c.Health(context.Background())
	assert.Error(t, err)
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = io.WriteString(w, suiteBody)
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, WithGenerateTimeout(50*time.Millisecond))
	_, err := c.Generate(context.Background(), GenerateRequest{Requirement: "slow"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestGenerateCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(srv.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Generate(ctx, GenerateRequest{Requirement: "never answered"})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("generate did not return after cancel")
	}
}

func TestPreferredModel(t *testing.T) {
	tests := []struct {
		name     string
		models   []string
		marker   string
		expected string
	}{
		{"marker match wins", []string{"gemma3:1b", "llama3.2", "llama3.1"}, "llama", "llama3.2"},
		{"falls back to first", []string{"gemma3:1b", "mistral"}, "llama", "gemma3:1b"},
		{"empty marker picks first", []string{"mistral", "llama3.2"}, "", "mistral"},
		{"empty list", nil, "llama", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PreferredModel(tt.models, tt.marker))
		})
	}
}

func TestContainsModel(t *testing.T) {
	models := []string{"gemma3:1b", "llama3.2"}
	assert.True(t, ContainsModel(models, "llama3.2"))
	assert.False(t, ContainsModel(models, "llama3"))
	assert.False(t, ContainsModel(nil, DefaultModel))
}
