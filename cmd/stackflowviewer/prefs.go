package main

import (
	"strconv"

	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/types"
)

const (
	prefLastTab = "lastTab"
	prefTag     = "tag"
	prefTopN    = "topN"
)

// prefStore is the part of fyne.Preferences the viewer uses.
type prefStore interface {
	StringWithFallback(key, fallback string) string
	SetString(key, value string)
}

// viewerPrefs is what the viewer remembers between runs.
type viewerPrefs struct {
	Tab  types.Tab
	Tag  string
	TopN string
}

// loadPrefs merges remembered values with cfg. Flags given explicitly win over remembered values,
// remembered values win over the config file.
func loadPrefs(p prefStore, cfg *config.Config, explicit func(flag string) bool) viewerPrefs {
	if explicit == nil {
		explicit = func(string) bool { return false }
	}
	out := viewerPrefs{Tab: types.TabTrends, Tag: cfg.Tag, TopN: strconv.Itoa(cfg.TopN)}
	if t, err := types.ParseTab(cfg.StartTab); err == nil {
		out.Tab = t
	}
	if p == nil {
		return out
	}
	if !explicit("tab") {
		if t, err := types.ParseTab(p.StringWithFallback(prefLastTab, "")); err == nil {
			out.Tab = t
		}
	}
	if !explicit("tag") {
		if v := p.StringWithFallback(prefTag, ""); v != "" {
			out.Tag = v
		}
	}
	if !explicit("top-n") {
		if v := p.StringWithFallback(prefTopN, ""); v != "" {
			out.TopN = v
		}
	}
	return out
}

func savePrefs(p prefStore, v viewerPrefs) {
	if p == nil {
		return
	}
	p.SetString(prefLastTab, string(v.Tab))
	p.SetString(prefTag, v.Tag)
	p.SetString(prefTopN, v.TopN)
}
