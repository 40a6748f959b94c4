// Command segpool drives a pool.Allocator from the command line: a basic
// allocate/free demo, a randomised bench harness, a debug RPC server, and a
// one-shot inspector that dumps a running server's pool layout. Structure
// (flag-based subcommands, CPU profiling) is adapted from the
// teacher's main.go stress-test driver.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/shenjiangwei/segpool/bench"
	"github.com/shenjiangwei/segpool/config"
	"github.com/shenjiangwei/segpool/pool"
	"github.com/shenjiangwei/segpool/rpc"
)

const defaultServerAddress = "localhost:7099"

func main() {
	mode := flag.String("mode", "basic", "Mode: basic, bench, serve, inspect")
	sizesFlag := flag.String("sizes", "16,64,256,4096", "Comma-separated, strictly increasing pool block sizes")
	configPath := flag.String("config", "", "Path to a YAML pool-size config file (overrides -sizes)")
	address := flag.String("address", defaultServerAddress, "Address for serve/inspect modes")
	metricsAddress := flag.String("metrics-address", "", "If set, serve Prometheus metrics at http://<addr>/metrics (bench and serve modes)")
	steps := flag.Int("steps", 100000, "Number of bench steps to run")
	cpuProfile := flag.String("cpuprofile", "", "Write a CPU profile to this path")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			pool.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			pool.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	sizes, err := resolveSizes(*sizesFlag, *configPath)
	if err != nil {
		pool.Fatal().Err(err).Msg("could not resolve pool sizes")
	}

	switch *mode {
	case "basic":
		runBasic(sizes)
	case "bench":
		runBench(sizes, *steps, *metricsAddress)
	case "serve":
		runServe(sizes, *address, *metricsAddress)
	case "inspect":
		runInspect(*address)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q; available modes: basic, bench, serve, inspect\n", *mode)
		os.Exit(1)
	}
}

func resolveSizes(sizesFlag, configPath string) ([]int, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return cfg.Pools, nil
	}
	return parseSizes(sizesFlag)
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				var n int
				if _, err := fmt.Sscanf(s[start:i], "%d", &n); err != nil {
					return nil, fmt.Errorf("invalid size %q: %w", s[start:i], err)
				}
				sizes = append(sizes, n)
			}
			start = i + 1
		}
	}
	return sizes, nil
}

func runBasic(sizes []int) {
	a := pool.New()
	if err := a.Init(sizes); err != nil {
		pool.Fatal().Err(err).Msg("init failed")
	}

	b := a.Alloc(sizes[0])
	if b == nil {
		pool.Fatal().Msg("allocation unexpectedly failed in basic demo")
	}
	copy(b, []byte("segpool"))
	fmt.Printf("allocated %d bytes, wrote %q\n", len(b), b)

	a.Free(b)
	a.Dump(os.Stdout)
}

func runBench(sizes []int, steps int, metricsAddress string) {
	a := pool.New()
	if err := a.Init(sizes); err != nil {
		pool.Fatal().Err(err).Msg("init failed")
	}
	startMetricsServer(metricsAddress)

	h := bench.New(a, sizes, time.Now().UnixNano())
	stats := h.Run(steps, 0.7)
	fmt.Print(stats.Report())
	a.Dump(os.Stdout)
}

func runServe(sizes []int, address, metricsAddress string) {
	a := pool.New()
	if err := a.Init(sizes); err != nil {
		pool.Fatal().Err(err).Msg("init failed")
	}
	startMetricsServer(metricsAddress)

	server, err := rpc.NewServer(a)
	if err != nil {
		pool.Fatal().Err(err).Msg("could not start server")
	}

	pool.SetLevel(zerolog.InfoLevel)
	fmt.Printf("serving on %s\n", address)
	if err := server.Start(address); err != nil {
		pool.Fatal().Err(err).Msg("server exited")
	}
}

// startMetricsServer registers the pool package's Prometheus collectors
// against a fresh registry and serves them over HTTP at /metrics, the way
// a caller of buildbarn-bb-storage's partitioningBlockAllocator wires its
// counters up for external scraping. A blank address disables it.
func startMetricsServer(address string) {
	if address == "" {
		return
	}

	reg := prometheus.NewRegistry()
	pool.RegisterMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(address, mux); err != nil {
			pool.Error().Err(err).Msg("metrics server exited")
		}
	}()
	fmt.Printf("serving metrics on http://%s/metrics\n", address)
}

func runInspect(address string) {
	client, err := rpc.NewClient(0, address)
	if err != nil {
		pool.Fatal().Err(err).Msg("could not connect")
	}
	defer client.Close()

	dump, err := client.Dump()
	if err != nil {
		pool.Fatal().Err(err).Msg("dump failed")
	}
	fmt.Print(dump)
}
