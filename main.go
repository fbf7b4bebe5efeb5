package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"eaglepark/auth"
	"eaglepark/backend"
	"eaglepark/config"
	"eaglepark/emulator"
	"eaglepark/geocode"
	"eaglepark/httputil"
	"eaglepark/logging"
	"eaglepark/schools"
	"eaglepark/store"
	"eaglepark/tui"
)

var (
	runEmulator = flag.Bool("emulator", false, "Serve the development backend and exit on interrupt")
	listSchools = flag.Bool("schools", false, "Fetch and print the school directory, then exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *runEmulator {
		srv, err := emulator.New(emulator.Options{
			JWTSecret:    cfg.Emulator.JWTSecret,
			WatchTimeout: cfg.Backend.WatchTimeout,
			SchoolsFile:  cfg.Emulator.Schools,
		})
		if err != nil {
			log.Fatalf("Failed to start emulator: %v", err)
		}
		if err := srv.ListenAndServe(cfg.Emulator.Addr); err != nil {
			log.Fatalf("Emulator: %v", err)
		}
		return
	}

	clients := httputil.NewClients(cfg.Backend.WatchTimeout)
	directory := schools.NewClient(cfg.Schools.URL, clients.Directory)

	if *listSchools {
		dir, err := directory.Load(ctx)
		if err != nil {
			log.Fatalf("Failed to load school directory: %v", err)
		}
		for _, school := range dir {
			fmt.Printf("%-45s %-20s %.4f,%.4f\n",
				school.Name, school.EmailDomain, school.Coordinates.Lat, school.Coordinates.Lng)
		}
		return
	}

	authClient := auth.NewClient(cfg.Backend.URL, clients.Backend)
	backendClient := backend.NewClient(cfg.Backend.URL, clients.Backend, authClient)
	listingStore := store.New(backendClient, authClient)

	geocoder := geocode.Geocoder(geocode.NewNominatim(
		cfg.Geocoder.URL, cfg.Geocoder.UserAgent, cfg.Geocoder.MinInterval, clients.Geocode))

	cache, err := geocode.OpenCache(cfg.GeocodeCache)
	if err != nil {
		log.Printf("Warning: geocode cache unavailable: %v", err)
	} else {
		defer cache.Close()
		geocoder = &geocode.CachedGeocoder{Geocoder: geocoder, Cache: cache}
	}

	bridge := geocode.NewBridge(geocoder)

	// Keep log lines out of the alternate screen while the TUI runs.
	if logFile != nil {
		logFile.FileOnly()
	}

	err = tui.Run(ctx, tui.Deps{
		Auth:    authClient,
		Store:   listingStore,
		Schools: directory,
		Bridge:  bridge,
	})
	if err != nil {
		log.Fatalf("TUI: %v", err)
	}
}
