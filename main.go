package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kalman/sfu/config"
	"github.com/kalman/sfu/sfu"
	"github.com/kalman/sfu/signaling"
)

func main() {
	cfg := config.Parse()

	coordinator := sfu.NewCoordinator(cfg.STUNServer)
	go coordinator.Run()

	addr := fmt.Sprintf(":%d", cfg.Port)
	listener := signaling.NewListener(addr)
	go coordinator.Accept(listener.Accepted())

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		done := make(chan os.Signal, 1)
		signal.Notify(done, os.Interrupt, syscall.SIGTERM)
		<-done
		log.Println("shutting down...")
		cancel()
	}()

	log.Printf("sfu listening on %s", addr)
	if err := listener.ListenAndServe(ctx); err != nil {
		log.Fatalf("signaling: %v", err)
	}

	coordinator.Stop()
	log.Println("stopped")
}
