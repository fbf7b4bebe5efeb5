package schools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eaglepark/models"
)

func TestLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"schools":[
			{"name":"Boston College","email_domain":"bc.edu","coordinates":{"lat":42.3355,"lng":-71.1685},"streets_nearby":["Beacon St"]},
			{"name":"Boston University","email_domain":"bu.edu","coordinates":{"lat":42.3505,"lng":-71.1054},"streets_nearby":[]}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	dir, err := client.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(dir) != 2 {
		t.Fatalf("expected 2 schools, got %d", len(dir))
	}
	if dir[0].Name != "Boston College" || dir[0].EmailDomain != "bc.edu" {
		t.Fatalf("unexpected first school %+v", dir[0])
	}
	if dir[0].Coordinates.Lat != 42.3355 {
		t.Fatalf("unexpected coordinates %+v", dir[0].Coordinates)
	}
}

func TestLoadBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"schools": not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	_, err := client.Load(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestLoadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client())
	_, err := client.Load(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestLoadUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	_, err := client.Load(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestValidEmailDomain(t *testing.T) {
	domains := AllowedDomains([]models.School{
		{EmailDomain: "bc.edu"},
		{EmailDomain: "bu.edu"},
	})

	if !ValidEmailDomain("student@bc.edu", domains) {
		t.Fatalf("bc.edu should be allowed")
	}
	if ValidEmailDomain("student@tufts.edu", domains) {
		t.Fatalf("tufts.edu should be rejected")
	}
	if ValidEmailDomain("no-at-sign", domains) {
		t.Fatalf("missing @ should be rejected")
	}
	if ValidEmailDomain("trailing@", domains) {
		t.Fatalf("empty domain should be rejected")
	}
}

func TestCredentialsPlausible(t *testing.T) {
	if !CredentialsPlausible("a@b.ed", "secret1") {
		t.Fatalf("plausible credentials rejected")
	}
	if CredentialsPlausible("a@b", "secret1") {
		t.Fatalf("short email accepted")
	}
	if CredentialsPlausible("a@bc.edu", "short") {
		t.Fatalf("short password accepted")
	}
	if CredentialsPlausible("abcdef", "secret1") {
		t.Fatalf("email without @ accepted")
	}
}
