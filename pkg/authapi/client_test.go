package authapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "jamie@example.com", creds["email"])

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"user":{"id":"u-42","name":"Jamie","email":"jamie@example.com","profile":{"phone":"555-0100","type":"customer"}}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/api/")
	user, err := client.Login(context.Background(), "jamie@example.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-42", user.ID)
	require.NotNil(t, user.Profile)
	assert.Equal(t, "customer", user.Profile.Type)
}

func TestLoginRejectedCarriesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"Invalid credentials"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Login(context.Background(), "jamie@example.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestLoginMalformedSuccessPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	user, err := client.Login(context.Background(), "jamie@example.com", "secret")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestRegisterForwardsMultipartForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1 << 20))

		assert.Equal(t, "Jamie", r.FormValue("name"))
		assert.Equal(t, "jamie@example.com", r.FormValue("email"))
		assert.Equal(t, "customer", r.FormValue("type"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "avatar.png", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))

		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Register(context.Background(), RegisterForm{
		Name:      "Jamie",
		Email:     "jamie@example.com",
		Password:  "secret",
		Type:      "customer",
		ImageName: "avatar.png",
		Image:     strings.NewReader("png-bytes"),
	})
	require.NoError(t, err)
}

func TestRegisterFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message":"Validation failed","errors":{"email":"already taken"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.Register(context.Background(), RegisterForm{Email: "taken@example.com"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "already taken", apiErr.Fields["email"])
}
