package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobhub-engine/internal/config"
)

func TestWriteTableAlignsWideRunes(t *testing.T) {
	var b strings.Builder
	writeTable(&b, [][]string{
		{"TITLE", "CO"},
		{"प्रोडक्ट मैनेजर", "A"},
		{"PM", "B"},
	})
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "TITLE"))
	assert.True(t, strings.HasSuffix(lines[2], "B"))
	assert.Equal(t, strings.Index(lines[0], "CO"), strings.Index(lines[2], "B"))
}

func TestWriteTableTruncatesLongCells(t *testing.T) {
	var b strings.Builder
	writeTable(&b, [][]string{{"URL"}, {strings.Repeat("x", 200)}})
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	assert.True(t, strings.HasSuffix(lines[1], "…"))
	assert.Less(t, len(lines[1]), 200)
}

func TestShutdownHandlerGuards(t *testing.T) {
	token := "secret"
	srv := &http.Server{}
	h := shutdownHandler(&token, srv)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/shutdown", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "10.0.0.5:4000"
	req.Header.Set("X-Shutdown-Token", token)
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Shutdown-Token", "wrong")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "[::1]:4000"
	req.Header.Set("X-Shutdown-Token", token)
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmissionFallsBackToConfig(t *testing.T) {
	a := &app{cfg: config.Default()}

	sub := a.submission("", "naukri, indeed,", "", -1)
	assert.Equal(t, []string{"Bangalore"}, sub.Locations)
	assert.Equal(t, []string{"naukri", "indeed"}, sub.Sources)
	assert.Equal(t, 2, sub.Pages)
	assert.Empty(t, sub.Queries)

	sub = a.submission("Pune,Mumbai", "", "product owner", 0)
	assert.Equal(t, []string{"Pune", "Mumbai"}, sub.Locations)
	assert.Equal(t, []string{"product owner"}, sub.Queries)
	assert.Equal(t, 0, sub.Pages)
}

func TestFetchOptionsFromConfig(t *testing.T) {
	fc := config.Default().Fetch
	fo := fetchOptions(fc)
	assert.Equal(t, fc.MinDelay, fo.MinDelay)
	assert.Equal(t, fc.MaxRetries, fo.MaxRetries)
	assert.Equal(t, fc.MaxBodyBytes, fo.MaxBodyBytes)
}
