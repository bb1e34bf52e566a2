package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/armascan/internal/app"
	"github.com/ayusman/armascan/internal/server"
	"github.com/ayusman/armascan/internal/store"
	"github.com/ayusman/armascan/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device ID")
	dataDir := flag.String("data", "", "data directory (default ~/.armascan)")
	modelDir := flag.String("models", "", "directory holding arma_<size>.stl models (default <data>/models)")
	webDir := flag.String("web", "", "static web directory (default: search common locations)")
	mirror := flag.Bool("mirror", true, "treat the camera as front-facing and mirror handedness")
	withTray := flag.Bool("tray", false, "show a system tray menu")
	flag.Parse()

	fmt.Println("ArmaScan - Hand Measurement Scanner")

	if *dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		*dataDir = filepath.Join(homeDir, ".armascan")
	}
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if *modelDir == "" {
		*modelDir = filepath.Join(*dataDir, "models")
	}

	st, err := store.New(filepath.Join(*dataDir, "armascan.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg := app.DefaultConfig()
	cfg.Store = st
	cfg.Capture.DeviceID = *cameraID
	cfg.Mirrored = *mirror
	scanner := app.New(cfg)
	if err := scanner.RestoreSettings(); err != nil {
		log.Printf("Failed to restore settings: %v", err)
	}
	// An explicit -mirror wins over the saved choice.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "mirror" {
			if err := scanner.SetMirrored(*mirror); err != nil {
				log.Printf("Failed to save mirroring: %v", err)
			}
		}
	})

	if *webDir == "" {
		*webDir = findWebDir(*dataDir)
	}
	if *webDir != "" {
		fmt.Printf("Serving static files from: %s\n", *webDir)
	}
	fmt.Printf("Serving 3D models from: %s\n", *modelDir)

	srv := server.New(server.Config{
		StaticDir: *webDir,
		ModelDir:  *modelDir,
		Store:     st,
		Pipeline:  scanner,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	shutdown := func() {
		scanner.Stop()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if !*withTray {
		<-sigCh
		fmt.Println("Shutting down...")
		shutdown()
		return
	}

	// The tray owns the main thread until Quit.
	t := tray.New()
	t.SetStatus(scanner.Status())
	unsubscribe := scanner.Subscribe(t.SetStatus)
	defer unsubscribe()

	t.OnToggle(func(scanning bool) {
		if !scanning {
			scanner.Stop()
			return
		}
		// Start blocks on the camera, which must not stall the menu loop.
		go func() {
			if err := scanner.Start(); err != nil {
				log.Printf("Failed to start scanning: %v", err)
			}
		}()
	})
	t.OnReset(func() {
		go func() {
			if err := scanner.Reset(); err != nil {
				log.Printf("Failed to reset scan: %v", err)
			}
		}()
	})
	t.OnOpen(func() {
		if err := openBrowser(localURL(*addr)); err != nil {
			log.Printf("Failed to open browser: %v", err)
		}
	})

	go func() {
		<-sigCh
		t.Quit()
	}()

	t.Run()
	fmt.Println("Shutting down...")
	shutdown()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}

// localURL turns a listen address into a browsable URL.
func localURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
