// Command lobsim runs the order book sanity demo, and optionally the
// stochastic market simulator, against a single in-memory book.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kdtran/lobsim/internal/config"
	"github.com/kdtran/lobsim/internal/demo"
	"github.com/kdtran/lobsim/internal/logging"
	"github.com/kdtran/lobsim/internal/sim"
)

func main() {
	runSim := flag.Bool("run-sim", false, "run the stochastic market simulator after the demo")
	events := flag.Int("events", 0, "override max simulated events (0 keeps the config/default value)")
	seed := flag.Uint64("seed", 0, "override the PRNG seed (0 keeps the config/default value)")
	configFile := flag.String("config", "", "path to a SimConfig YAML file")
	flag.Parse()

	log := logging.New(logging.Info)
	defer log.Sync()

	if err := demo.Run(os.Stdout, log); err != nil {
		log.Error("demo failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !*runSim {
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	// CLI flags win over whatever the config file or defaults set.
	if *events > 0 {
		cfg.MaxEvents = *events
	}
	if *seed > 0 {
		cfg.Seed = *seed
	}

	s := sim.New(cfg, log)
	report := s.Run()

	fmt.Println("=== SIM DONE ===")
	fmt.Print(report)

	if !s.Book().SelfCheck() {
		fmt.Fprintln(os.Stderr, "self-check failed after sim run")
		os.Exit(1)
	}
}
