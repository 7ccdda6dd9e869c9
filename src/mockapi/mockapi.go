// Package mockapi serves canned analytics payloads with the same routes and shapes as the real
// backend, for running the dashboard without a database.
package mockapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/iafilius/StackflowDashboard/src/logger"
)

var log = logger.Component("mock")

// MonthCount is one month of a tag's activity.
type MonthCount struct {
	Month string `yaml:"month"`
	Count int64  `yaml:"count"`
}

// Pair is one co-occurring tag pair.
type Pair struct {
	Tags  string `yaml:"tags"`
	Count int    `yaml:"count"`
}

// Word is one word-cloud entry.
type Word struct {
	Word   string  `yaml:"word"`
	Weight float64 `yaml:"weight"`
}

// Solvability is one category's solvable/hard ratio pair.
type Solvability struct {
	Category string  `yaml:"category"`
	Solvable float64 `yaml:"solvable"`
	Hard     float64 `yaml:"hard"`
}

// Dataset is everything the mock serves. Lists keep the order the backend would emit.
type Dataset struct {
	Trends      map[string][]MonthCount `yaml:"trends"`
	Pairs       []Pair                  `yaml:"pairs"`
	Words       []Word                  `yaml:"words"`
	Solvability []Solvability           `yaml:"solvability"`
}

// LoadDataset reads a YAML dataset file.
func LoadDataset(filename string) (*Dataset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", filename, err)
	}
	return &ds, nil
}

// Options tune the mock's behaviour.
type Options struct {
	// Delay is added to every request, to exercise out-of-order results in the viewer.
	Delay time.Duration
	// Fail makes the named endpoint (e.g. "wordcloud") answer 500.
	Fail string
}

type server struct {
	ds        *Dataset
	opts      Options
	collected atomic.Int64
}

// Router builds the gin engine serving ds under /api.
func Router(ds *Dataset, opts Options) *gin.Engine {
	if ds == nil {
		ds = Sample()
	}
	s := &server{ds: ds, opts: opts}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog)
	api := r.Group("/api")
	api.Use(s.faults)
	api.GET("/collect", s.collect)
	api.GET("/trend", s.trend)
	api.GET("/topNpairs", s.topNPairs)
	api.GET("/wordcloud", s.wordCloud)
	api.GET("/solvability", s.solvability)
	return r
}

func (s *server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	log.Infof("%s %s -> %d in %s (request %s)", c.Request.Method, c.Request.URL.RequestURI(), c.Writer.Status(), time.Since(start).Round(time.Millisecond), c.GetHeader("X-Request-ID"))
}

func (s *server) faults(c *gin.Context) {
	if s.opts.Delay > 0 {
		select {
		case <-time.After(s.opts.Delay):
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	if s.opts.Fail != "" && strings.TrimPrefix(c.FullPath(), "/api/") == s.opts.Fail {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "injected failure"})
		return
	}
	c.Next()
}

func (s *server) collect(c *gin.Context) {
	n := s.collected.Add(1)
	c.String(http.StatusOK, "Data collection started (run %d)", n)
}

func (s *server) trend(c *gin.Context) {
	tag := c.Query("tagName")
	if strings.TrimSpace(tag) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tagName is required"})
		return
	}
	start, err := parseBound(c.Query("start"), time.Time{})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start: " + err.Error()})
		return
	}
	end, err := parseBound(c.Query("end"), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end: " + err.Error()})
		return
	}
	from := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	var members []member
	for _, mc := range s.ds.Trends[strings.ToLower(tag)] {
		m, err := time.Parse("2006-01", mc.Month)
		if err != nil || m.Before(from) || m.After(end) {
			continue
		}
		members = append(members, member{mc.Month, mc.Count})
	}
	writeObject(c, members)
}

func parseBound(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *server) topNPairs(c *gin.Context) {
	n := 10
	if v := c.Query("topN"); v != "" {
		var err error
		n, err = strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "topN must be a positive integer"})
			return
		}
	}
	pairs := append([]Pair(nil), s.ds.Pairs...)
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Count > pairs[j].Count })
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	out := make([]map[string]int, len(pairs))
	for i, p := range pairs {
		out[i] = map[string]int{p.Tags: p.Count}
	}
	c.JSON(http.StatusOK, out)
}

func (s *server) wordCloud(c *gin.Context) {
	words := append([]Word(nil), s.ds.Words...)
	sort.SliceStable(words, func(i, j int) bool { return words[i].Weight > words[j].Weight })
	members := make([]member, len(words))
	for i, w := range words {
		members[i] = member{w.Word, w.Weight}
	}
	writeObject(c, members)
}

func (s *server) solvability(c *gin.Context) {
	members := make([]member, len(s.ds.Solvability))
	for i, r := range s.ds.Solvability {
		members[i] = member{r.Category, strconv.FormatFloat(r.Solvable, 'f', -1, 64) + "_" + strconv.FormatFloat(r.Hard, 'f', -1, 64)}
	}
	writeObject(c, members)
}

type member struct {
	key   string
	value any
}

// writeObject emits a JSON object in member order; encoding a Go map would sort the keys.
func writeObject(c *gin.Context, members []member) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(m.key)
		v, err := json.Marshal(m.value)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}
