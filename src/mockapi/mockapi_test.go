package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestCollect(t *testing.T) {
	r := Router(nil, Options{})
	w := get(t, r, "/api/collect")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data collection started (run 1)", w.Body.String())
	assert.Contains(t, get(t, r, "/api/collect").Body.String(), "run 2")
}

func TestTrend_FiltersRange(t *testing.T) {
	r := Router(nil, Options{})
	w := get(t, r, "/api/trend?tagName=java&start=2024-01-15T00:00:00Z&end=2024-03-31T23:59:59Z")
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]int64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 3)
	assert.Contains(t, got, "2024-01")
	assert.Contains(t, got, "2024-03")

	assert.Equal(t, http.StatusBadRequest, get(t, r, "/api/trend?tagName=").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/api/trend?tagName=java&start=yesterday").Code)
	w = get(t, r, "/api/trend?tagName=cobol")
	assert.Equal(t, "{}", w.Body.String())
}

func TestTopNPairs(t *testing.T) {
	r := Router(nil, Options{})
	w := get(t, r, "/api/topNpairs?topN=3")
	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, 4210, got[0]["java + multithreading"])

	require.NoError(t, json.Unmarshal(get(t, r, "/api/topNpairs").Body.Bytes(), &got))
	assert.Len(t, got, 10)
	assert.Equal(t, http.StatusBadRequest, get(t, r, "/api/topNpairs?topN=zero").Code)
}

func TestWordCloud_OrderedByWeight(t *testing.T) {
	ds := &Dataset{Words: []Word{{"b", 1}, {"a", 5}, {"c", 3}}}
	w := get(t, Router(ds, Options{}), "/api/wordcloud")
	assert.Equal(t, `{"a":5,"c":3,"b":1}`, w.Body.String())
}

func TestSolvabilityFormat(t *testing.T) {
	ds := &Dataset{Solvability: []Solvability{{"Trendiness", 12.5, 10}}}
	w := get(t, Router(ds, Options{}), "/api/solvability")
	assert.Equal(t, `{"Trendiness":"12.5_10"}`, w.Body.String())
}

func TestFaultInjection(t *testing.T) {
	r := Router(nil, Options{Fail: "wordcloud"})
	assert.Equal(t, http.StatusInternalServerError, get(t, r, "/api/wordcloud").Code)
	assert.Equal(t, http.StatusOK, get(t, r, "/api/solvability").Code)

	slow := Router(nil, Options{Delay: 20 * time.Millisecond})
	start := time.Now()
	get(t, slow, "/api/solvability")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestLoadDataset(t *testing.T) {
	p := filepath.Join(t.TempDir(), "ds.yaml")
	body := strings.Join([]string{
		"trends:",
		"  go:",
		"    - {month: 2024-01, count: 7}",
		"words:",
		"  - {word: goroutine, weight: 9}",
		"solvability:",
		"  - {category: Trendiness, solvable: 1, hard: 2}",
	}, "\n")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	ds, err := LoadDataset(p)
	require.NoError(t, err)
	assert.Equal(t, []MonthCount{{"2024-01", 7}}, ds.Trends["go"])
	assert.Equal(t, "goroutine", ds.Words[0].Word)
	assert.Equal(t, 2.0, ds.Solvability[0].Hard)
}

func TestSampleMonthly(t *testing.T) {
	s := monthly(2023, 11, 2024, 2, 100, 1)
	require.Len(t, s, 4)
	assert.Equal(t, "2023-11", s[0].Month)
	assert.Equal(t, "2024-02", s[3].Month)
}
