package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestServer(t)

	env.register(t, "alice", "secret1")
	_ = env.login(t, "alice", "secret1")

	rec := env.do(t, http.MethodPost, "/login", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
		"password": "another1",
		"email":    "dup@example.com",
	}, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: status = %d, want 409", rec.Code)
	}
}

func TestRegisterRejectsIncompleteBody(t *testing.T) {
	env := newTestServer(t)

	rec := env.do(t, http.MethodPost, "/register", map[string]string{
		"username": "alice",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLoginThrottledByForwardedAddress(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "bob", "secret1")

	attacker := map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.1"}
	for i := 0; i < 5; i++ {
		rec := env.do(t, http.MethodPost, "/login", map[string]string{
			"username": "bob",
			"password": "wrong-password",
		}, attacker)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: status = %d, want 401", i+1, rec.Code)
		}
	}

	rec := env.do(t, http.MethodPost, "/login", map[string]string{
		"username": "bob",
		"password": "secret1",
	}, attacker)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("sixth attempt: status = %d, want 429", rec.Code)
	}

	// Another client address is unaffected.
	other := map[string]string{"X-Forwarded-For": "198.51.100.7"}
	rec = env.do(t, http.MethodPost, "/login", map[string]string{
		"username": "bob",
		"password": "secret1",
	}, other)
	if rec.Code != http.StatusOK {
		t.Fatalf("unrelated address: status = %d, want 200", rec.Code)
	}
}

func TestProfile(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice", "secret1")
	token := env.login(t, "alice", "secret1")

	rec := env.do(t, http.MethodGet, "/users/profile", nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/users/profile", nil, bearer("garbage"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token: status = %d, want 401", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/users/profile", nil, bearer(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view userView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if !view.OwnProfile || view.Email != "alice@example.com" || view.ID == "" {
		t.Errorf("unexpected profile view: %+v", view)
	}
}

func TestPublicUserLookupHidesEmail(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice", "secret1")
	env.register(t, "bob", "secret1")
	aliceToken := env.login(t, "alice", "secret1")
	bobToken := env.login(t, "bob", "secret1")

	for name, headers := range map[string]map[string]string{
		"anonymous":     nil,
		"other account": bearer(bobToken),
	} {
		rec := env.do(t, http.MethodGet, "/users/alice", nil, headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", name, rec.Code)
		}
		var view userView
		if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if view.OwnProfile || view.Email != "" || view.ID != "" {
			t.Errorf("%s sees private fields: %+v", name, view)
		}
	}

	rec := env.do(t, http.MethodGet, "/users/alice", nil, bearer(aliceToken))
	var view userView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode own lookup: %v", err)
	}
	if !view.OwnProfile || view.Email != "alice@example.com" {
		t.Errorf("own lookup missing private fields: %+v", view)
	}

	if rec := env.do(t, http.MethodGet, "/users/nobody", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown user: status = %d, want 404", rec.Code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice", "secret1")
	token := env.login(t, "alice", "secret1")

	if rec := env.do(t, http.MethodPost, "/logout", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("logout without bearer: status = %d, want 400", rec.Code)
	}

	if rec := env.do(t, http.MethodPost, "/logout", nil, bearer(token)); rec.Code != http.StatusOK {
		t.Fatalf("logout: status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/users/profile", nil, bearer(token)); rec.Code != http.StatusUnauthorized {
		t.Errorf("profile after logout: status = %d, want 401", rec.Code)
	}
}

func TestPasswordUpdateEndpoint(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice", "secret1")
	env.register(t, "bob", "secret1")
	aliceToken := env.login(t, "alice", "secret1")
	bobToken := env.login(t, "bob", "secret1")

	rec := env.do(t, http.MethodGet, "/users/profile", nil, bearer(aliceToken))
	var profile userView
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	path := "/users/" + profile.ID + "/password"

	// Another account must not modify this one.
	rec = env.do(t, http.MethodPut, path, map[string]string{
		"currentPassword": "secret1",
		"newPassword":     "evenmoresecret",
	}, bearer(bobToken))
	if rec.Code != http.StatusForbidden {
		t.Errorf("foreign token: status = %d, want 403", rec.Code)
	}

	rec = env.do(t, http.MethodPut, path, map[string]string{
		"currentPassword": "not-the-password",
		"newPassword":     "evenmoresecret",
	}, bearer(aliceToken))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong current password: status = %d, want 401", rec.Code)
	}

	// Issued-at has second granularity; keep the replacement token distinct.
	time.Sleep(1100 * time.Millisecond)

	rec = env.do(t, http.MethodPut, path, map[string]string{
		"currentPassword": "secret1",
		"newPassword":     "evenmoresecret",
	}, bearer(aliceToken))
	if rec.Code != http.StatusOK {
		t.Fatalf("password update: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("no replacement token issued")
	}

	if rec := env.do(t, http.MethodGet, "/users/profile", nil, bearer(aliceToken)); rec.Code != http.StatusUnauthorized {
		t.Errorf("old token survives password change: status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/users/profile", nil, bearer(resp.Token)); rec.Code != http.StatusOK {
		t.Errorf("replacement token rejected: status = %d", rec.Code)
	}
	_ = env.login(t, "alice", "evenmoresecret")
}

func TestUsernameUpdateEndpoint(t *testing.T) {
	env := newTestServer(t)
	env.register(t, "alice", "secret1")
	token := env.login(t, "alice", "secret1")

	rec := env.do(t, http.MethodGet, "/users/profile", nil, bearer(token))
	var profile userView
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}

	time.Sleep(1100 * time.Millisecond)

	rec = env.do(t, http.MethodPut, "/users/"+profile.ID+"/username", map[string]string{
		"newUsername": "alicia",
	}, bearer(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("username update: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode update response: %v", err)
	}

	if rec := env.do(t, http.MethodGet, "/users/profile", nil, bearer(token)); rec.Code != http.StatusUnauthorized {
		t.Errorf("stale token survives rename: status = %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/users/profile", nil, bearer(resp.Token)); rec.Code != http.StatusOK {
		t.Errorf("replacement token rejected: status = %d", rec.Code)
	}
	_ = env.login(t, "alicia", "secret1")
}
