package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/config"
	applogger "github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/logger"
)

func main() {
	logger, err := applogger.NewLogger(&config.LogConfig{Level: "warn", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := commandLine{out: os.Stdout, logger: logger}
	if err := cli.run(ctx, os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
