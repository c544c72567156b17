/*
@Author: Lzww
@LastEditTime: 2025-9-21 21:06:33
@Description: recvbench command: time batched vs per-message UDP receive
@Language: Go 1.23.4
*/

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	recvbench "recv-bench"
	"recv-bench/logutil"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("recvbench", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: recvbench [OPTIONS] <port>")
		fs.PrintDefaults()
	}

	var (
		configFile = fs.String("config", "", "TOML config file; flags override its values")
		bufferSize = fs.Int("b", 1, "Number of packets allocated to send per round.")
		roundCount = fs.Int("c", 1, "Number of rounds (send + receive) to run.\nEvery round sends and reads buffer_size entries.")
		useRecvmsg = fs.Bool("m", false, "Use recvmsg(). If not specified, use recvmmsg().")
		strategy   = fs.String("strategy", "", "Receive strategy by name (recvmmsg, recvmsg); overrides -m.")
		verify     = fs.Bool("verify", false, "Compare every received payload with the one sent.")
		lockMemory = fs.Bool("lock", false, "Lock the slot memory with mlock(2).")
		jsonOut    = fs.Bool("json", false, "Print the result as JSON.")
		showStats  = fs.Bool("stats", false, "Print receive and send counters.")
		logLevel   = fs.String("log-level", "", "Log level (debug, info, warn, error).")
	)
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	cfg := recvbench.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = recvbench.LoadConfig(*configFile); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "b":
			cfg.BufferSize = *bufferSize
		case "c":
			cfg.RoundCount = *roundCount
		case "m":
			cfg.UseRecvmsg = *useRecvmsg
		case "verify":
			cfg.Verify = *verify
		case "lock":
			cfg.LockMemory = *lockMemory
		case "log-level":
			cfg.Log.Level = *logLevel
		}
	})

	if *strategy != "" {
		st, err := recvbench.ParseStrategy(*strategy)
		if err != nil {
			fmt.Fprintln(stderr, err)
			fs.Usage()
			return 1
		}
		cfg.UseRecvmsg = st == recvbench.PerMessageLoop
	}

	switch {
	case fs.NArg() > 0:
		port, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			fs.Usage()
			return 1
		}
		cfg.Port = port
	case *configFile == "":
		fs.Usage()
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return 1
	}

	logger, err := logutil.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer logger.Sync()

	if !*jsonOut {
		fmt.Fprintln(stdout, recvbench.Banner(cfg.Strategy()))
	}

	conn, err := recvbench.ListenLoopback(cfg.Port)
	if err != nil {
		logger.Error("listen failed", zap.Error(err))
		return 1
	}
	defer conn.Close()

	bench, err := recvbench.NewBench(cfg, conn, logger)
	if err != nil {
		logger.Error("setup failed", zap.Error(err))
		return 1
	}
	defer bench.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, runErr := bench.Run(ctx)
	if *showStats {
		res.Stats = recvbench.DefaultStats.Copy()
	}

	if *jsonOut {
		err = res.WriteJSON(stdout)
	} else {
		err = res.WriteText(stdout)
	}
	if err != nil {
		logger.Error("write result", zap.Error(err))
		return 1
	}

	if runErr != nil {
		logger.Error("run failed", zap.Error(runErr))
		return 1
	}
	return 0
}
