package sheets

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap/zaptest"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
	testPEM string
)

func serviceAccountKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	keyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("generating key: %v", err)
		}
		der, err := x509.MarshalPKCS8PrivateKey(k)
		if err != nil {
			t.Fatalf("marshalling key: %v", err)
		}
		testKey = k
		testPEM = string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	})
	return testKey, testPEM
}

type fakeGoogle struct {
	t          *testing.T
	key        *rsa.PublicKey
	tokenCalls int
	appends    [][][]interface{}
	rejectAuth bool
	failAppend bool
	mu         sync.Mutex
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case r.URL.Path == "/token":
		f.tokenCalls++
		if f.rejectAuth {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid JWT Signature."}`))
			return
		}
		if err := r.ParseForm(); err != nil {
			f.t.Errorf("parsing form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != GRANT_TYPE {
			f.t.Errorf("grant_type = %q", got)
		}
		tok, err := jwt.Parse(r.PostForm.Get("assertion"), func(*jwt.Token) (interface{}, error) {
			return f.key, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		if err != nil {
			f.t.Errorf("assertion does not verify: %v", err)
		} else if claims := tok.Claims.(jwt.MapClaims); claims["iss"] != "relay@example.iam.gserviceaccount.com" || claims["scope"] != SCOPE {
			f.t.Errorf("claims = %v", claims)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"ya29.test","token_type":"Bearer","expires_in":3600}`))

	case strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-123/values/") && strings.HasSuffix(r.URL.Path, ":append"):
		if got := r.Header.Get("Authorization"); got != "Bearer ya29.test" {
			f.t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("valueInputOption"); got != VALUE_INPUT_OPTION {
			f.t.Errorf("valueInputOption = %q", got)
		}
		if !strings.Contains(r.URL.Path, "Registrations!A:Z") {
			f.t.Errorf("path = %q, want range Registrations!A:Z", r.URL.Path)
		}
		if f.failAppend {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"code":403,"message":"The caller does not have permission"}}`))
			return
		}
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			f.t.Errorf("decoding append body: %v", err)
		}
		f.appends = append(f.appends, body.Values)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"spreadsheetId":"sheet-123","updates":{"updatedRows":1}}`))

	default:
		f.t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, f *fakeGoogle, mutate func(*Config)) (*Client, *httptest.Server) {
	t.Helper()
	key, keyPEM := serviceAccountKey(t)
	f.t = t
	f.key = &key.PublicKey

	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	cfg := Config{
		SpreadsheetID: "sheet-123",
		SheetName:     "Registrations",
		ClientEmail:   "relay@example.iam.gserviceaccount.com",
		PrivateKey:    keyPEM,
		TokenURL:      srv.URL + "/token",
		Endpoint:      srv.URL + "/",
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg, srv.Client(), zaptest.NewLogger(t)), srv
}

func TestAppend(t *testing.T) {
	f := &fakeGoogle{}
	c, _ := newTestClient(t, f, nil)

	rows := [][]interface{}{
		{"2026-10-15T10:00:00.000Z", 2, 1, "Captain", "Ada", 28, "Female", "+1", "", "TEAM-ABC123", "Paid"},
		{"2026-10-15T10:00:00.000Z", 2, 2, "Member", "Bob", 30, "Male", "", "", "TEAM-ABC123", "Paid"},
	}
	n, err := c.Append(context.Background(), "sub-1", rows)
	if err != nil {
		t.Fatalf("Append error = %v", err)
	}
	if n != 2 {
		t.Errorf("appended = %d, want 2", n)
	}
	if f.tokenCalls != 1 {
		t.Errorf("token calls = %d, want 1", f.tokenCalls)
	}
	if len(f.appends) != 1 || len(f.appends[0]) != 2 {
		t.Fatalf("appends = %v", f.appends)
	}
	if got := f.appends[0][1][3]; got != "Member" {
		t.Errorf("row 2 role = %v, want Member", got)
	}

	// Each call authenticates again and appends again.
	if _, err := c.Append(context.Background(), "sub-2", rows); err != nil {
		t.Fatalf("second Append error = %v", err)
	}
	if f.tokenCalls != 2 || len(f.appends) != 2 {
		t.Errorf("token calls = %d, appends = %d, want 2 and 2", f.tokenCalls, len(f.appends))
	}
}

func TestReadyRequiresAllCredentials(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no spreadsheet", mutate: func(c *Config) { c.SpreadsheetID = "" }},
		{name: "no email", mutate: func(c *Config) { c.ClientEmail = "" }},
		{name: "no key", mutate: func(c *Config) { c.PrivateKey = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeGoogle{}
			c, _ := newTestClient(t, f, tt.mutate)

			if err := c.Ready(); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("Ready error = %v, want ErrNotConfigured", err)
			}
			if _, err := c.Append(context.Background(), "sub", [][]interface{}{{"x"}}); !errors.Is(err, ErrNotConfigured) {
				t.Errorf("Append error = %v, want ErrNotConfigured", err)
			}
			if f.tokenCalls != 0 || len(f.appends) != 0 {
				t.Errorf("backend was contacted: token=%d appends=%d", f.tokenCalls, len(f.appends))
			}
		})
	}
}

func TestAuthFailure(t *testing.T) {
	f := &fakeGoogle{rejectAuth: true}
	c, _ := newTestClient(t, f, nil)

	_, err := c.Append(context.Background(), "sub", [][]interface{}{{"x"}})
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("error = %v, want ErrAuth", err)
	}
	if !strings.Contains(err.Error(), "Invalid JWT Signature.") {
		t.Errorf("error %q should carry the token endpoint message", err)
	}
	if len(f.appends) != 0 {
		t.Error("append must not run after an auth failure")
	}
}

func TestBadPrivateKey(t *testing.T) {
	f := &fakeGoogle{}
	c, _ := newTestClient(t, f, func(c *Config) { c.PrivateKey = "not a key" })

	if _, err := c.Authorize(context.Background()); !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
	if f.tokenCalls != 0 {
		t.Error("token endpoint should not be called with an unusable key")
	}
}

func TestUpstreamFailure(t *testing.T) {
	f := &fakeGoogle{failAppend: true}
	c, _ := newTestClient(t, f, nil)

	_, err := c.Append(context.Background(), "sub", [][]interface{}{{"x"}})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
	if !strings.Contains(err.Error(), "permission") {
		t.Errorf("error %q should carry the API message", err)
	}
}
