package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"citysim/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestQuoteCmd(t *testing.T) {
	out, err := runCmd(t, "quote", "50", "50", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "center", got["zone"])
	assert.Equal(t, "100", got["price"])

	_, err = runCmd(t, "quote", "500", "0")
	assert.Error(t, err)

	_, err = runCmd(t, "quote", "a", "0")
	assert.Error(t, err)
}

func TestIncomeTableCmd(t *testing.T) {
	out, err := runCmd(t, "income-table", "--type", "farm")
	require.NoError(t, err)
	assert.Contains(t, out, "ROI DAYS")
	assert.Contains(t, out, "farm")

	_, err = runCmd(t, "income-table", "--type", "castle")
	assert.Error(t, err)
}

func TestAPIClient_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Header.Get("Authorization") != "Bearer admin-token":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"code":401,"error":{"code":"INVALID_TOKEN","message":"Invalid token"}}`))
		case r.URL.Path == "/admin/sweep" && r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`{"success":true,"code":200,"data":{"scanned":3,"collected":2,"total_net":"1.5"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	var report usecase.SweepReport
	err := newAPIClient(srv.URL+"/", "admin-token").do(context.Background(), http.MethodPost, "/admin/sweep", nil, &report)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, "1.5", report.TotalNet.String())

	err = newAPIClient(srv.URL, "wrong").do(context.Background(), http.MethodGet, "/admin/treasury", nil, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "INVALID_TOKEN"))

	err = newAPIClient(srv.URL, "admin-token").do(context.Background(), http.MethodGet, "/missing", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSweepCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"code":200,"data":{"scanned":1,"collected":1,"total_net":"2","total_tax":"0.3"}}`))
	}))
	defer srv.Close()

	out, err := runCmd(t, "sweep", "--api", srv.URL, "--token", "t")
	require.NoError(t, err)
	assert.Contains(t, out, "collected")
}
