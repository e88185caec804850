package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tbn01-acc/lifefocus-sub002/internal/tracker"
)

// Session tracker client: each line on stdin counts as one interaction
// signal. Normal flushes go through the authenticated flush endpoint; the
// teardown flush goes through the fire-and-forget beacon endpoint.
func main() {
	_ = godotenv.Load()

	baseURL := getEnv("API_BASE_URL", "http://localhost:8080")
	token := os.Getenv("API_TOKEN")
	if token == "" {
		logrus.Fatal("API_TOKEN is required")
	}
	// The server derives identity from the token; the local id only labels
	// log lines.
	userID, _ := strconv.ParseInt(os.Getenv("USER_ID"), 10, 64)

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stderr)

	flusher := tracker.NewAPIFlusher(baseURL+"/api/activity/flush", token)
	beacon := tracker.NewBeaconFlusher(baseURL+"/api/activity/beacon", token)

	tr := tracker.New(userID, tracker.DefaultConfig(), nil, flusher, beacon, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			tr.Touch()
		}
		cancel()
	}()

	log.Infof("Session tracker started against %s", baseURL)
	tr.Run(ctx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
