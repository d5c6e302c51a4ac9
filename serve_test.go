package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/carbon_analyzer/domain/models"
)

func testServer(t *testing.T) (*server, http.Handler) {
	t.Helper()
	cfg, in := testInputs(t)
	s := newServer(cfg, in)
	return s, s.router()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServeDashboard(t *testing.T) {
	_, h := testServer(t)

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), dashboardTitle)

	rec = get(t, h, "/?site_mode=NONE")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data for the current filters.")
}

func TestServeKPIs(t *testing.T) {
	_, h := testServer(t)

	tests := []struct {
		query   string
		records int
	}{
		{"", 5},
		{"?green=green", 2},
		{"?site=b.com&site=g.org", 2},
		{"?site_mode=NONE", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, h, "/api/kpis"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)
			var k models.KPIs
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &k))
			// KPIs describe the whole dataset whatever the filters
			assert.Equal(t, 5, k.Sites)
			assert.Equal(t, 40, k.GreenPercent)

			rec = get(t, h, "/api/records"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)
			var records []map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
			assert.Len(t, records, tt.records)
		})
	}
}

func TestServeCountries(t *testing.T) {
	_, h := testServer(t)

	rec := get(t, h, "/api/countries?mode=avg")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Metric    string                  `json:"metric"`
		Mode      string                  `json:"mode"`
		Countries []models.GroupAggregate `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "co2_grid_grams", resp.Metric)
	assert.Equal(t, "AVG", resp.Mode)
	require.Len(t, resp.Countries, 2)
	assert.Equal(t, "UNITED STATES OF AMERICA", resp.Countries[0].Key)
	assert.Equal(t, 7.5, resp.Countries[0].Value)
	assert.Equal(t, 2, resp.Countries[0].Count)
}

func TestServeRecordsAndSites(t *testing.T) {
	_, h := testServer(t)

	rec := get(t, h, "/api/records?green=NOT_GREEN")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 3)

	rec = get(t, h, "/api/sites")
	require.Equal(t, http.StatusOK, rec.Code)
	var sites []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sites))
	assert.Equal(t, []string{"b.com", "c.com", "d.fr", "g.org", "https://www.a.com"}, sites)
}

func TestServeBadRequests(t *testing.T) {
	_, h := testServer(t)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/kpis?metric=nope").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/countries?mode=median").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/?green=blue").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/kpis?id=missing").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/sites?id=missing").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/kpis", nil))
		return rec.Code
	}())
}

func TestServeGeo(t *testing.T) {
	s, h := testServer(t)

	rec := get(t, h, "/geo.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "FeatureCollection")

	s.base.Geo = nil
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/geo.json").Code)
}

func upload(t *testing.T, h http.Handler, name, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServeUpload(t *testing.T) {
	s, h := testServer(t)

	form := get(t, h, "/upload")
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `name="file"`)

	rec := upload(t, h, "mine.csv", "site,country,green_host,co2_grid_grams\nx.com,Japan,1,3\ny.com,Japan,0,4\n")
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Records)
	require.NotEmpty(t, resp.ID)

	kpis := get(t, h, "/api/kpis?id="+resp.ID)
	require.Equal(t, http.StatusOK, kpis.Code)
	var k models.KPIs
	require.NoError(t, json.Unmarshal(kpis.Body.Bytes(), &k))
	assert.Equal(t, 2, k.Sites)
	assert.Equal(t, "Japan", k.MostPollutingCountry)

	// the base dataset is untouched
	base := get(t, h, "/api/kpis")
	require.NoError(t, json.Unmarshal(base.Body.Bytes(), &k))
	assert.Equal(t, 5, k.Sites)

	s.expire(time.Now().Add(time.Minute))
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/kpis?id="+resp.ID).Code)
}

func TestServeUpload_Rejects(t *testing.T) {
	s, h := testServer(t)

	rec := upload(t, h, "broken.csv", "site,country\na.com,France,extra\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	left, err := os.ReadDir(s.cfg.UploadDir)
	require.NoError(t, err)
	assert.Empty(t, left)

	for _, name := range []string{"..", "/"} {
		rec = upload(t, h, name, "site\na.com\n")
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
