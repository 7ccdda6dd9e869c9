package dashboard

import (
	"errors"
	"testing"
	"time"
)

func TestParseTopN(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", DefaultTopN, false},
		{" 25 ", 25, false},
		{"1", 1, false},
		{"100", 100, false},
		{"0", 0, true},
		{"101", 0, true},
		{"-3", 0, true},
		{"ten", 0, true},
	}
	for _, c := range cases {
		got, err := ParseTopN(c.in)
		if c.wantErr {
			var ie *InputError
			if !errors.As(err, &ie) {
				t.Fatalf("ParseTopN(%q): want InputError got %v", c.in, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("ParseTopN(%q) = %d, %v want %d", c.in, got, err, c.want)
		}
	}
}

func TestParseTrendInput(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	q, err := ParseTrendInput(TrendInput{Tag: " java "}, now)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if q.Tag != "java" || !q.Start.Equal(TrendEpoch) || !q.End.Equal(now) || q.End.Location() != time.UTC {
		t.Fatalf("unexpected query %+v", q)
	}

	q, err = ParseTrendInput(TrendInput{Tag: "go", Start: "2020-01", End: "2021-06-30"}, now)
	if err != nil {
		t.Fatalf("explicit range: %v", err)
	}
	if !q.Start.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) || !q.End.Equal(time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected range %v..%v", q.Start, q.End)
	}
	p := q.Params()
	if p["tagName"] != "go" {
		t.Fatalf("params %v", p)
	}

	for _, in := range []TrendInput{
		{Tag: ""},
		{Tag: "   "},
		{Tag: "go", Start: "yesterday"},
		{Tag: "go", Start: "2022-01-01", End: "2021-01-01"},
	} {
		var ie *InputError
		if _, err := ParseTrendInput(in, now); !errors.As(err, &ie) {
			t.Fatalf("%+v: want InputError got %v", in, err)
		}
	}
}
