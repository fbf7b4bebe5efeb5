package emulator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := New(Options{JWTSecret: "test-secret", WatchTimeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("new emulator: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	return resp
}

func signUp(t *testing.T, baseURL, email string) string {
	t.Helper()
	resp := postJSON(t, baseURL+"/v1/auth/signup", "", map[string]string{
		"email": email, "password": "secret1",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Token == "" || out.Email != email {
		t.Fatalf("unexpected session %+v", out)
	}
	return out.Token
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	signUp(t, ts.URL, "x@bu.edu")

	// Duplicate registration is rejected.
	resp := postJSON(t, ts.URL+"/v1/auth/signup", "", map[string]string{
		"email": "x@bu.edu", "password": "secret1",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate signup, got %d", resp.StatusCode)
	}

	// Wrong password is rejected.
	resp = postJSON(t, ts.URL+"/v1/auth/signin", "", map[string]string{
		"email": "x@bu.edu", "password": "wrong-password",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", resp.StatusCode)
	}

	// Correct password signs in.
	resp = postJSON(t, ts.URL+"/v1/auth/signin", "", map[string]string{
		"email": "x@bu.edu", "password": "secret1",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for signin, got %d", resp.StatusCode)
	}
}

func TestCreateRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/listings", "", map[string]any{"address": "1 Elm St"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/v1/listings", "not-a-token", map[string]any{"address": "1 Elm St"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", resp.StatusCode)
	}
}

func fetchSnapshot(t *testing.T, url string) snapshot {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var snap snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return snap
}

func TestListingsOrderedByAddress(t *testing.T) {
	ts := newTestServer(t)
	token := signUp(t, ts.URL, "x@bu.edu")

	for _, address := range []string{"b street", "Z street", "A street"} {
		resp := postJSON(t, ts.URL+"/v1/listings", token, map[string]any{"address": address})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create status %d", resp.StatusCode)
		}
	}

	snap := fetchSnapshot(t, ts.URL+"/v1/listings")
	if len(snap.Documents) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(snap.Documents))
	}

	// Case-sensitive lexicographic order: capitals sort before "b".
	want := []string{"A street", "Z street", "b street"}
	for i, doc := range snap.Documents {
		if doc.Data["address"] != want[i] {
			t.Fatalf("documents[%d] = %v, want %v", i, doc.Data["address"], want[i])
		}
	}

	// Attribution comes from the session, not the payload.
	if snap.Documents[0].Data["postedBy"] != "x@bu.edu" {
		t.Fatalf("expected session attribution, got %v", snap.Documents[0].Data["postedBy"])
	}
	if snap.Documents[0].ID == "" {
		t.Fatalf("expected server-assigned id")
	}
}

func TestWatchWakesOnMutation(t *testing.T) {
	ts := newTestServer(t)
	token := signUp(t, ts.URL, "x@bu.edu")

	initial := fetchSnapshot(t, ts.URL+"/v1/listings")

	watchURL := fmt.Sprintf("%s/v1/listings/watch?since=%d", ts.URL, initial.Revision)
	done := make(chan snapshot, 1)
	go func() {
		done <- fetchSnapshot(t, watchURL)
	}()

	// The watcher must still be parked before the mutation.
	select {
	case snap := <-done:
		t.Fatalf("watch returned early with revision %d", snap.Revision)
	case <-time.After(50 * time.Millisecond):
	}

	resp := postJSON(t, ts.URL+"/v1/listings", token, map[string]any{"address": "12 Elm St"})
	resp.Body.Close()

	select {
	case snap := <-done:
		if snap.Revision <= initial.Revision {
			t.Fatalf("revision did not advance: %d -> %d", initial.Revision, snap.Revision)
		}
		if len(snap.Documents) != 1 {
			t.Fatalf("expected 1 document, got %d", len(snap.Documents))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not wake on mutation")
	}
}

func TestWatchTimesOutWithCurrentState(t *testing.T) {
	ts := newTestServer(t)

	initial := fetchSnapshot(t, ts.URL+"/v1/listings")
	snap := fetchSnapshot(t, fmt.Sprintf("%s/v1/listings/watch?since=%d", ts.URL, initial.Revision))
	if snap.Revision != initial.Revision {
		t.Fatalf("timeout should return the unchanged revision, got %d", snap.Revision)
	}
}

func TestDelete(t *testing.T) {
	ts := newTestServer(t)
	token := signUp(t, ts.URL, "x@bu.edu")

	resp := postJSON(t, ts.URL+"/v1/listings", token, map[string]any{"address": "12 Elm St"})
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/v1/listings/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status %d", delResp.StatusCode)
	}

	snap := fetchSnapshot(t, ts.URL+"/v1/listings")
	if len(snap.Documents) != 0 {
		t.Fatalf("expected empty collection, got %d documents", len(snap.Documents))
	}

	// Deleting an absent document still succeeds.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/v1/listings/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	delResp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("absent delete status %d", delResp.StatusCode)
	}
}

func TestSchoolsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/schools")
	if err != nil {
		t.Fatalf("get schools: %v", err)
	}
	defer resp.Body.Close()

	var out struct {
		Schools []struct {
			Name        string `json:"name"`
			EmailDomain string `json:"email_domain"`
		} `json:"schools"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Schools) != 5 {
		t.Fatalf("expected 5 default schools, got %d", len(out.Schools))
	}
	if out.Schools[0].Name != "Boston College" || out.Schools[0].EmailDomain != "bc.edu" {
		t.Fatalf("unexpected first school %+v", out.Schools[0])
	}
}
