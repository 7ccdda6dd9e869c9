package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/iafilius/StackflowDashboard/src/analysis"
	"github.com/iafilius/StackflowDashboard/src/apiclient"
	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/dashboard"
	"github.com/iafilius/StackflowDashboard/src/types"
)

func main() {
	fs := pflag.NewFlagSet("stackflowreader", pflag.ExitOnError)
	flags := config.BindFlags(fs)
	panel := fs.String("panel", "", "panel to print: trends, cooccurrence, pitfalls, solvability (default all)")
	start := fs.String("start", "", "trend start (RFC3339, 2006-01-02 or 2006-01)")
	end := fs.String("end", "", "trend end (default now)")
	collect := fs.Bool("collect", false, "trigger backend data collection and exit")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Resolve(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	client, err := apiclient.New(apiclient.Options{BaseURL: cfg.APIBase, Timeout: cfg.Timeout, RequestsPerSecond: cfg.RequestsPerSecond})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	if *collect {
		text, err := client.FetchText(ctx, apiclient.PathCollect)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Started: %s\n", text)
		return
	}
	r := reader{client: client, cfg: cfg, trend: dashboard.TrendInput{Tag: cfg.Tag, Start: *start, End: *end}, now: time.Now()}
	if err := r.print(ctx, os.Stdout, *panel); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type reader struct {
	client dashboard.Fetcher
	cfg    *config.Config
	trend  dashboard.TrendInput
	now    time.Time
}

// print writes the named panel, or every panel when name is empty, as plain text.
func (r reader) print(ctx context.Context, w io.Writer, name string) error {
	tabs := types.AllTabs
	if name != "" {
		t, err := types.ParseTab(name)
		if err != nil {
			return err
		}
		tabs = []types.Tab{t}
	}
	var failed []string
	for _, t := range tabs {
		fmt.Fprintf(w, "== %s ==\n", t.Title())
		if err := r.printPanel(ctx, w, t); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			failed = append(failed, t.Title())
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed panels: %s", strings.Join(failed, ", "))
	}
	return nil
}

func (r reader) printPanel(ctx context.Context, w io.Writer, t types.Tab) error {
	switch t {
	case types.TabTrends:
		q, err := dashboard.ParseTrendInput(r.trend, r.now)
		if err != nil {
			return err
		}
		raw, err := r.client.FetchJSON(ctx, apiclient.PathTrend, q.Params())
		if err != nil {
			return err
		}
		pts, err := analysis.TrendSeries(raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Activity for tag: %s (%d months)\n", q.Tag, len(pts))
		for _, p := range pts {
			fmt.Fprintf(w, "%s\t%g\n", p.Label, p.Value)
		}
	case types.TabCooccurrence:
		n, err := dashboard.ParseTopN(fmt.Sprint(r.cfg.TopN))
		if err != nil {
			return err
		}
		raw, err := r.client.FetchJSON(ctx, apiclient.PathTopNPairs, apiclient.Params{"topN": n})
		if err != nil {
			return err
		}
		pairs, err := analysis.PairSeries(raw)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			fmt.Fprintf(w, "%s\t%g\n", p.Pair, p.Count)
		}
	case types.TabPitfalls:
		raw, err := r.client.FetchJSON(ctx, apiclient.PathWordCloud, nil)
		if err != nil {
			return err
		}
		words, err := analysis.WordWeights(raw)
		if err != nil {
			return err
		}
		for _, ww := range words {
			fmt.Fprintf(w, "%s\t%g\tsize=%.1f\n", ww.Word, ww.Weight, analysis.WordDisplaySize(ww.Weight))
		}
	case types.TabSolvability:
		raw, err := r.client.FetchJSON(ctx, apiclient.PathSolvability, nil)
		if err != nil {
			return err
		}
		recs, err := analysis.SolvabilityRecords(raw)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			fmt.Fprintf(w, "%s\t%s\n", rec.Category, strings.Join(analysis.SolvabilityTooltip(rec.Solvable, rec.Hard), "\t"))
		}
	}
	return nil
}
