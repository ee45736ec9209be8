package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatali-fataliyev/club_treasury/internal/config"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	phones := "phone_number,name,status\n" +
		"+573106059758,Ana Gomez,active\n" +
		"573001234567,Luis Perez,active\n" +
		"+573009876543,Carlos Ruiz,inactive\n"
	ledger := "date,description,amount,type\nJan 14 2024,Monthly Dues,2500,income\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "allowed-phones.csv"), []byte(phones), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), []byte(ledger), 0o644))
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPhonesCommand(t *testing.T) {
	dir := writeDataDir(t)

	out, err := run(t, "phones", "--data-dir", dir)
	require.NoError(t, err)
	assert.Equal(t, "3001234567\n3106059758\n", out)
}

func TestPhonesCommandMissingData(t *testing.T) {
	_, err := run(t, "phones", "--data-dir", t.TempDir())
	require.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	dir := writeDataDir(t)

	tests := []struct {
		phone string
		want  string
	}{
		{phone: "+573106059758", want: "+573106059758: allowed\n"},
		{phone: "3001234567", want: "3001234567: allowed\n"},
		{phone: "+573009876543", want: "+573009876543: denied\n"},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			out, err := run(t, "check", tt.phone, "--data-dir", dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestCheckCommandRequiresArgument(t *testing.T) {
	_, err := run(t, "check")
	require.Error(t, err)
}

func TestHandlerCORSPreflight(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Dir = writeDataDir(t)
	cfg.CORS.AllowedOrigins = []string{"https://club.example"}

	handler := newHandler(cfg, newApp(cfg))

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "https://club.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://club.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Port = "0"
	cfg.Data.Dir = writeDataDir(t)
	cfg.Session.SweepInterval = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, cfg) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
