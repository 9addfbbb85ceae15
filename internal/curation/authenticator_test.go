package curation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthenticate_Success(t *testing.T) {
	var gotForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"scope":         r.PostFormValue("scope"),
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","expires_in":900}`))
	}))
	defer server.Close()

	auth := NewAuthenticator(Credentials{ClientID: "id", ClientSecret: "secret"}, testHTTPClient(), testLogger())
	session := &Session{AuthEndpoint: server.URL}

	if err := auth.Authenticate(context.Background(), session); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if session.Token != "test-token" {
		t.Errorf("Expected session token 'test-token', got '%s'", session.Token)
	}

	if gotForm["grant_type"] != "client_credentials" {
		t.Errorf("Expected grant_type 'client_credentials', got '%s'", gotForm["grant_type"])
	}
	if gotForm["scope"] != "environment_authorization" {
		t.Errorf("Expected scope 'environment_authorization', got '%s'", gotForm["scope"])
	}
	if gotForm["client_id"] != "id" || gotForm["client_secret"] != "secret" {
		t.Errorf("Expected credentials to be sent, got id='%s' secret='%s'", gotForm["client_id"], gotForm["client_secret"])
	}
}

func TestAuthenticate_MissingCredentials(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	tests := []struct {
		name        string
		credentials Credentials
		wantMissing int
	}{
		{"missing both", Credentials{}, 2},
		{"missing secret", Credentials{ClientID: "id"}, 1},
		{"missing id", Credentials{ClientSecret: "secret"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := NewAuthenticator(tt.credentials, testHTTPClient(), testLogger())
			session := &Session{AuthEndpoint: server.URL}

			err := auth.Authenticate(context.Background(), session)
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("Expected ConfigurationError, got: %v", err)
			}
			if len(ce.Missing) != tt.wantMissing {
				t.Errorf("Expected %d missing values, got %d (%v)", tt.wantMissing, len(ce.Missing), ce.Missing)
			}
		})
	}

	if requests != 0 {
		t.Errorf("Expected no network calls for missing credentials, server saw %d", requests)
	}
}

func TestAuthenticate_MissingTokenField(t *testing.T) {
	// A 200 response without access_token must still fail.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer server.Close()

	auth := NewAuthenticator(Credentials{ClientID: "id", ClientSecret: "secret"}, testHTTPClient(), testLogger())
	session := &Session{AuthEndpoint: server.URL}

	err := auth.Authenticate(context.Background(), session)
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StageError, got: %v", err)
	}
	if se.Stage != StageAuth {
		t.Errorf("Expected stage AUTH, got %s", se.Stage)
	}
	if session.Token != "" {
		t.Errorf("Expected no token to be stored, got '%s'", session.Token)
	}
}

func TestAuthenticate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	auth := NewAuthenticator(Credentials{ClientID: "id", ClientSecret: "bad"}, testHTTPClient(), testLogger())
	session := &Session{AuthEndpoint: server.URL}

	err := auth.Authenticate(context.Background(), session)
	var se *StageError
	if !errors.As(err, &se) {
		t.Fatalf("Expected StageError, got: %v", err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", se.StatusCode)
	}
	if se.Body == "" {
		t.Error("Expected error to carry the response body for diagnostics")
	}
}
