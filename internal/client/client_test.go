package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Invincible1602/AyurYoga/pkg/config"
)

func svcConfig(url string) config.ServiceConfig {
	return config.ServiceConfig{BaseURL: url, Timeout: 5 * time.Second}
}

func TestAuthClient_Login(t *testing.T) {
	t.Run("returns token on success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/login/", r.URL.Path)

			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "maya", creds["username"])
			assert.Equal(t, "s3cret", creds["password"])

			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "tok-123",
				"token_type":   "bearer",
			})
		}))
		defer srv.Close()

		token, err := NewAuthClient(svcConfig(srv.URL)).Login(context.Background(), "maya", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "tok-123", token)
	})

	t.Run("surfaces upstream detail on bad credentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid username or password"})
		}))
		defer srv.Close()

		_, err := NewAuthClient(svcConfig(srv.URL)).Login(context.Background(), "maya", "wrong")
		require.Error(t, err)

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
		assert.Equal(t, "Invalid username or password", upstream.Detail)
	})

	t.Run("rejects empty access token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
		}))
		defer srv.Close()

		_, err := NewAuthClient(svcConfig(srv.URL)).Login(context.Background(), "maya", "s3cret")
		assert.Error(t, err)
	})
}

func TestAuthClient_Register(t *testing.T) {
	t.Run("accepts created", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/register/", r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"message": "User registered successfully"})
		}))
		defer srv.Close()

		err := NewAuthClient(svcConfig(srv.URL)).Register(context.Background(), "maya", "s3cret")
		assert.NoError(t, err)
	})

	t.Run("surfaces duplicate username", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Username already registered"})
		}))
		defer srv.Close()

		err := NewAuthClient(svcConfig(srv.URL)).Register(context.Background(), "maya", "s3cret")

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, "Username already registered", upstream.Detail)
	})
}

func TestRecommenderClient_Recommend(t *testing.T) {
	t.Run("decodes asana list and forwards token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/recommend/", r.URL.Path)
			assert.Equal(t, "back pain", r.URL.Query().Get("disease"))
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			json.NewEncoder(w).Encode([]map[string]interface{}{
				{
					"Asana Name":             "Bhujangasana",
					"Reasons Not to Perform": []string{"hernia", "pregnancy"},
				},
			})
		}))
		defer srv.Close()

		asanas, err := NewRecommenderClient(svcConfig(srv.URL)).Recommend(context.Background(), "tok-123", "back pain")
		require.NoError(t, err)
		require.Len(t, asanas, 1)
		assert.Equal(t, "Bhujangasana", asanas[0].Name)
		assert.Equal(t, []string{"hernia", "pregnancy"}, asanas[0].Cautions)
	})

	t.Run("surfaces expired token as upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
		}))
		defer srv.Close()

		_, err := NewRecommenderClient(svcConfig(srv.URL)).Recommend(context.Background(), "stale", "back pain")

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	})
}

func TestChatClient_Ask(t *testing.T) {
	t.Run("returns bot reply", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/get_response", r.URL.Path)

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "what is pranayama", body["message"])

			json.NewEncoder(w).Encode(map[string]string{"response": "Pranayama is breath regulation."})
		}))
		defer srv.Close()

		reply, err := NewChatClient(svcConfig(srv.URL)).Ask(context.Background(), "what is pranayama")
		require.NoError(t, err)
		assert.Equal(t, "Pranayama is breath regulation.", reply)
	})

	t.Run("reports unreachable service", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		_, err := NewChatClient(svcConfig(srv.URL)).Ask(context.Background(), "hello")
		assert.Error(t, err)
	})
}

func TestImagesClient_Search(t *testing.T) {
	t.Run("decodes url list", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search-images", r.URL.Path)
			assert.Equal(t, "tree pose", r.URL.Query().Get("prompt"))
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			json.NewEncoder(w).Encode([]string{
				"https://img.example/a.jpg",
				"https://img.example/b.jpg",
			})
		}))
		defer srv.Close()

		urls, err := NewImagesClient(svcConfig(srv.URL)).Search(context.Background(), "tok-123", "tree pose")
		require.NoError(t, err)
		assert.Len(t, urls, 2)
	})

	t.Run("falls back to status text without detail body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewImagesClient(svcConfig(srv.URL)).Search(context.Background(), "tok-123", "x")

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusText(http.StatusBadGateway), upstream.Detail)
	})
}
