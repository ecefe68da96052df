package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaultServer(t *testing.T, wantPath, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != wantPath || r.Header.Get("X-Vault-Token") != "root" {
			http.Error(w, `{"errors":["permission denied"]}`, http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApply_KV2ExportsAllowedKeys(t *testing.T) {
	srv := vaultServer(t, "/v1/secret/data/smartrent/backend",
		`{"data":{"data":{"JWT_SECRET":"from-vault","DB_PASSWORD":"pw","TYPESENSE_API_KEY":42,"UNRELATED":"x"},"metadata":{"version":3}}}`)

	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "already-set")
	t.Setenv("TYPESENSE_API_KEY", "")
	t.Setenv("UNRELATED", "")

	summary, err := Apply(context.Background(), VaultSource{
		Enabled:   true,
		Addr:      srv.URL + "/",
		Token:     "root",
		Mount:     "secret",
		Path:      "/smartrent/backend",
		KVVersion: 2,
		Keys:      DefaultKeys,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"JWT_SECRET", "TYPESENSE_API_KEY"}, summary.Applied)
	assert.Equal(t, []string{"DB_PASSWORD"}, summary.Kept)
	assert.Equal(t, 1, summary.Ignored)
	assert.Equal(t, "from-vault", os.Getenv("JWT_SECRET"))
	assert.Equal(t, "42", os.Getenv("TYPESENSE_API_KEY"))
	assert.Equal(t, "already-set", os.Getenv("DB_PASSWORD"))
	assert.Empty(t, os.Getenv("UNRELATED"))
}

func TestApply_KV1WithOverwrite(t *testing.T) {
	srv := vaultServer(t, "/v1/kv/app", `{"data":{"JWT_SECRET":"rotated"}}`)
	t.Setenv("JWT_SECRET", "stale")

	summary, err := Apply(context.Background(), VaultSource{
		Enabled: true, Addr: srv.URL, Token: "root", Mount: "kv", Path: "app", KVVersion: 1, Overwrite: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"JWT_SECRET"}, summary.Applied)
	assert.Equal(t, "rotated", os.Getenv("JWT_SECRET"))
}

func TestApply_Disabled(t *testing.T) {
	summary, err := Apply(context.Background(), VaultSource{Enabled: false, Addr: "http://127.0.0.1:1"})
	require.NoError(t, err)
	assert.Empty(t, summary.Applied)
}

func TestFetch_Errors(t *testing.T) {
	srv := vaultServer(t, "/v1/secret/data/app", `{"data":{"metadata":{}}}`)

	tests := []struct {
		name string
		src  VaultSource
	}{
		{"incomplete", VaultSource{Addr: srv.URL, Path: "app"}},
		{"forbidden", VaultSource{Addr: srv.URL, Token: "wrong", Mount: "secret", Path: "app", KVVersion: 2}},
		{"missing v2 data", VaultSource{Addr: srv.URL, Token: "root", Mount: "secret", Path: "app", KVVersion: 2}},
		{"bad version", VaultSource{Addr: srv.URL, Token: "root", Mount: "secret", Path: "app", KVVersion: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fetch(context.Background(), tt.src)
			assert.Error(t, err)
		})
	}
}

func TestSourceFromEnv(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "TRUE")
	t.Setenv("VAULT_ADDR", "http://vault:8200")
	t.Setenv("VAULT_MOUNT", "")
	t.Setenv("VAULT_KV_VERSION", "1")
	t.Setenv("VAULT_TIMEOUT_MS", "250")
	t.Setenv("VAULT_KEYS", "JWT_SECRET, DB_PASSWORD,")

	src := SourceFromEnv()
	assert.True(t, src.Enabled)
	assert.Equal(t, "secret", src.Mount)
	assert.Equal(t, 1, src.KVVersion)
	assert.Equal(t, int64(250), src.Timeout.Milliseconds())
	assert.Equal(t, []string{"JWT_SECRET", "DB_PASSWORD"}, src.Keys)

	t.Setenv("VAULT_KEYS", "*")
	assert.Nil(t, SourceFromEnv().Keys)
}
