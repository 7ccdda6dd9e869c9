package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/iafilius/StackflowDashboard/src/config"
	"github.com/iafilius/StackflowDashboard/src/logger"
	"github.com/iafilius/StackflowDashboard/src/mockapi"
)

func main() {
	fs := pflag.NewFlagSet("stackflowmock", pflag.ExitOnError)
	cfgFile := fs.StringP("config", "c", "", "YAML config file (mock.addr, log_level)")
	addr := fs.String("addr", "", "listen address (default from config, :8080)")
	dataset := fs.String("dataset", "", "YAML dataset to serve instead of the built-in sample")
	delay := fs.Duration("delay", 0, "added latency per request")
	fail := fs.String("fail", "", "endpoint that answers 500, e.g. wordcloud")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.LoadConfig(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger.SetLogLevel(cfg.LogLevel)
	if *addr == "" {
		*addr = cfg.Mock.Addr
	}

	var ds *mockapi.Dataset
	if *dataset != "" {
		if ds, err = mockapi.LoadDataset(*dataset); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	gin.SetMode(gin.ReleaseMode)
	r := mockapi.Router(ds, mockapi.Options{Delay: *delay, Fail: *fail})
	logger.Infof("[mock] serving /api on %s", *addr)
	if err := r.Run(*addr); err != nil {
		logger.Errorf("[mock] %v", err)
		os.Exit(1)
	}
}
