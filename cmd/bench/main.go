// Command bench runs a synthetic workload against a memoized function
// and exposes Prometheus metrics. The workload shape (strategy, bounds,
// keyspace, skew) comes from an optional TOML scenario file.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/gomemo/memofn/memo"
	"github.com/gomemo/memofn/metrics/prom"
)

// scenario is the TOML-configurable workload description.
type scenario struct {
	Strategy string        `toml:"strategy"` // map | lru | ttl
	MaxSize  int           `toml:"maxSize"`
	TTL      time.Duration `toml:"ttl"`

	Workers  int           `toml:"workers"`
	Duration time.Duration `toml:"duration"`
	Keys     int           `toml:"keys"`
	ZipfS    float64       `toml:"zipfS"`
	ZipfV    float64       `toml:"zipfV"`
	Seed     int64         `toml:"seed"`

	// WorkCost is the simulated compute time of one cold invocation.
	WorkCost time.Duration `toml:"workCost"`
}

var defaultScenario = scenario{
	Strategy: "lru",
	MaxSize:  10_000,
	TTL:      30 * time.Second,
	Workers:  2 * runtime.GOMAXPROCS(0),
	Duration: 10 * time.Second,
	Keys:     100_000,
	ZipfS:    1.1,
	ZipfV:    1.0,
	WorkCost: 50 * time.Microsecond,
}

func main() {
	var (
		configFile  = flag.String("config", "", "TOML scenario file (empty = built-in defaults)")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr (empty = disabled)")
	)
	flag.Parse()
	initLogger()

	cfg := defaultScenario
	if *configFile != "" {
		if _, err := toml.DecodeFile(*configFile, &cfg); err != nil {
			log.WithError(err).Fatal("decode scenario")
		}
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	metrics := prom.New(nil, "memofn", "bench", nil)
	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.WithField("addr", *metricsAddr).Info("serving metrics")
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.WithError(err).Error("metrics server")
			}
		}()
	}

	opt := memo.Options[uint64]{
		Strategy: memo.Strategy(cfg.Strategy),
		MaxSize:  cfg.MaxSize,
		TTL:      cfg.TTL,
		Metrics:  metrics,
	}
	if opt.Strategy == memo.StrategyMap {
		opt.MaxSize, opt.TTL = 0, 0
	}

	workCost := cfg.WorkCost
	f, err := memo.Memoize(func(k uint64) uint64 {
		// Simulated expensive computation.
		if workCost > 0 {
			time.Sleep(workCost)
		}
		h := k
		h ^= h >> 33
		h *= 0xff51afd7ed558ccd
		h ^= h >> 33
		return h
	}, opt)
	if err != nil {
		log.WithError(err).Fatal("configure memoizer")
	}

	log.WithFields(log.Fields{
		"strategy": cfg.Strategy,
		"maxSize":  cfg.MaxSize,
		"workers":  cfg.Workers,
		"keys":     cfg.Keys,
		"duration": cfg.Duration.String(),
		"seed":     cfg.Seed,
	}).Info("starting workload")

	var total uint64
	deadline := time.Now().Add(cfg.Duration)

	start := time.Now()
	var g errgroup.Group
	for w := 0; w < cfg.Workers; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is not
			// goroutine-safe).
			r := rand.New(rand.NewSource(cfg.Seed + int64(id)*9973))
			zipf := rand.NewZipf(r, cfg.ZipfS, cfg.ZipfV, uint64(cfg.Keys-1))
			for time.Now().Before(deadline) {
				f.Call(zipf.Uint64())
				atomic.AddUint64(&total, 1)
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	s := f.Stats()
	hitRate := 0.0
	if s.Hits+s.Misses > 0 {
		hitRate = float64(s.Hits) / float64(s.Hits+s.Misses) * 100
	}
	ops := atomic.LoadUint64(&total)
	log.WithFields(log.Fields{
		"ops":       ops,
		"ops_per_s": fmt.Sprintf("%.0f", float64(ops)/elapsed.Seconds()),
		"hits":      s.Hits,
		"misses":    s.Misses,
		"evictions": s.Evictions,
		"size":      s.Size,
		"hit_rate":  fmt.Sprintf("%.2f%%", hitRate),
	}).Info("workload finished")
}

// initLogger wires a compact handler and a level from MEMOFN_LOG.
func initLogger() {
	level := strings.ToUpper(os.Getenv("MEMOFN_LOG"))
	if level == "" {
		level = "INFO"
	}
	log.SetHandler(&plainHandler{})
	log.SetLevelFromString(level)
}

// plainHandler writes "timestamp L message k=v ..." lines to stdout.
type plainHandler struct{}

func (h *plainHandler) HandleLog(e *log.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s", time.Now().Format("2006-01-02 15:04:05"), strings.ToUpper(e.Level.String()), e.Message)
	for _, f := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%v", f, e.Fields.Get(f))
	}
	fmt.Fprintln(os.Stdout, b.String())
	return nil
}
