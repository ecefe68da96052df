// Package secrets pulls deployment secrets out of a Vault KV engine into the
// process environment before configuration is read.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultKeys are the variables the services read that should never live in a
// plain env file.
var DefaultKeys = []string{"JWT_SECRET", "DB_PASSWORD", "REDIS_PASSWORD", "TYPESENSE_API_KEY", "MONGODB_URI"}

// VaultSource describes one KV secret
type VaultSource struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	// Overwrite replaces variables that are already set
	Overwrite bool
	// Keys limits which entries are exported. Empty exports everything.
	Keys []string
}

// Summary reports what Apply did
type Summary struct {
	Applied []string
	Kept    []string
	Ignored int
}

// SourceFromEnv reads VAULT_* variables, including ones set in a local .env file
func SourceFromEnv() VaultSource {
	_ = godotenv.Load()

	src := VaultSource{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     envOr("VAULT_MOUNT", "secret"),
		Path:      envOr("VAULT_PATH", "smartrent/backend"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
		Keys:      DefaultKeys,
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		src.KVVersion = v
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil && v > 0 {
		src.Timeout = time.Duration(v) * time.Millisecond
	}
	if keys := os.Getenv("VAULT_KEYS"); keys == "*" {
		src.Keys = nil
	} else if keys != "" {
		src.Keys = splitKeys(keys)
	}
	return src
}

// Apply fetches the secret and exports its entries. A disabled source is a no-op.
func Apply(ctx context.Context, src VaultSource) (Summary, error) {
	if !src.Enabled {
		return Summary{}, nil
	}

	values, err := Fetch(ctx, src)
	if err != nil {
		return Summary{}, err
	}

	allowed := make(map[string]bool, len(src.Keys))
	for _, k := range src.Keys {
		allowed[k] = true
	}

	var summary Summary
	for key, value := range values {
		if len(allowed) > 0 && !allowed[key] {
			summary.Ignored++
			continue
		}
		if !src.Overwrite && os.Getenv(key) != "" {
			summary.Kept = append(summary.Kept, key)
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return summary, fmt.Errorf("failed to export %s: %w", key, err)
		}
		summary.Applied = append(summary.Applied, key)
	}

	log.Info().
		Str("path", src.Path).
		Strs("applied", summary.Applied).
		Int("kept", len(summary.Kept)).
		Int("ignored", summary.Ignored).
		Msg("Loaded secrets from Vault")
	return summary, nil
}

// Fetch reads the secret and flattens every value to a string
func Fetch(ctx context.Context, src VaultSource) (map[string]string, error) {
	if src.Addr == "" || src.Token == "" || src.Path == "" {
		return nil, errors.New("vault source incomplete: VAULT_ADDR, VAULT_TOKEN and VAULT_PATH are required")
	}

	url, err := secretURL(src)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", src.Token)
	if src.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", src.Namespace)
	}

	client := &http.Client{Timeout: src.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read vault response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vault returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	data, err := decodeKV(body, src.KVVersion)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(data))
	for k, raw := range data {
		values[k] = flatten(raw)
	}
	return values, nil
}

func secretURL(src VaultSource) (string, error) {
	addr := strings.TrimRight(src.Addr, "/")
	mount := strings.Trim(src.Mount, "/")
	path := strings.Trim(src.Path, "/")
	if mount == "" || path == "" {
		return "", errors.New("vault mount and path must be set")
	}
	switch src.KVVersion {
	case 1:
		return fmt.Sprintf("%s/v1/%s/%s", addr, mount, path), nil
	case 2:
		return fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path), nil
	default:
		return "", fmt.Errorf("unsupported KV version %d", src.KVVersion)
	}
}

// decodeKV unwraps the v1 {"data":{...}} or v2 {"data":{"data":{...}}} envelope
func decodeKV(body []byte, version int) (map[string]json.RawMessage, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("invalid vault response: %w", err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, errors.New("vault response has no data")
	}

	raw := envelope.Data
	if version == 2 {
		var inner struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(raw, &inner); err != nil || len(inner.Data) == 0 || string(inner.Data) == "null" {
			return nil, errors.New("vault response has no KV v2 data")
		}
		raw = inner.Data
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("vault data is not an object: %w", err)
	}
	return data, nil
}

// flatten keeps strings as-is and writes any other JSON value verbatim
func flatten(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func splitKeys(csv string) []string {
	var keys []string
	for _, k := range strings.Split(csv, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
