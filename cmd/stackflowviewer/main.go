package main

import (
	"context"
	"fmt"
	"image/color"
	"os"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/pflag"

	"github.com/iafilius/StackflowDashboard/src/apiclient"
	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/logger"
)

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func newClient(cfg *config.Config) (*apiclient.Client, error) {
	return apiclient.New(apiclient.Options{
		BaseURL:           cfg.APIBase,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
}

func main() {
	fs := pflag.NewFlagSet("stackflowviewer", pflag.ExitOnError)
	flags := config.BindFlags(fs)
	shots := fs.String("screenshots", "", "render every panel as PNG into DIR and exit without a window")
	shotW := fs.Int("screenshot-width", 1000, "chart width in screenshots mode")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Resolve(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	client, err := newClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *shots != "" {
		if err := RunScreenshotsMode(context.Background(), client, cfg, *shots, *shotW); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		logger.Infof("[viewer] screenshots written to %s", *shots)
		return
	}

	a := app.NewWithID("com.stackflow.dashboard")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Stack Overflow Tag Analytics")
	w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	ui, err := buildUI(a, w, client, cfg, flags.Changed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	ui.start()
	w.ShowAndRun()
}
