package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	weeklypodcast "github.com/bur98022/cfm-personal-podcast/agents/weekly-podcast"
	"github.com/bur98022/cfm-personal-podcast/shared/config"
	"github.com/bur98022/cfm-personal-podcast/shared/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single weekly cycle and exit")
	force := flag.Bool("force", false, "regenerate and republish even if the week's audio already exists")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := weeklypodcast.NewPodcastAgent(cfg)
	agent.Force = *force
	s := scheduler.New(cfg, agent)

	if *once {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		return
	}

	fmt.Println("Starting scheduler...")

	if err := s.Start(ctx); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}
