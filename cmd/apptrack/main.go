package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"apptrack/internal/config"
	"apptrack/internal/daemon"
	"apptrack/internal/database"
	"apptrack/internal/report"
	"apptrack/internal/reporter"
	"apptrack/internal/tracker"
	"apptrack/internal/web"
	"apptrack/pkg/detector"
	"apptrack/pkg/input"
	"apptrack/pkg/input/mouse"
	inputx11 "apptrack/pkg/input/x11"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "start":
		startDaemon(false)
	case "serve":
		startDaemon(true)
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "report":
		generateReport()
	case "clear":
		clearDatabase()
	case "version":
		fmt.Printf("apptrack version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`apptrack - Desktop application time logger

Usage:
  apptrack <command> [options]

Commands:
  start              Start the tracking daemon
  serve              Start daemon with web API server
  stop               Stop the tracking daemon
  status             Show daemon status and current focused window
  report [period]    Generate time report (period: day, week, month)
  clear              Clear all tracking data from database
  version            Show version information
  help               Show this help message

Examples:
  apptrack start
  apptrack serve
  apptrack status
  apptrack report day
  apptrack report week --json
  apptrack stop

Environment Variables:
  APPTRACK_DB_PATH          Database file path
  APPTRACK_POLL_INTERVAL    Poll interval in seconds (1-300)
  APPTRACK_IDLE_THRESHOLD   Idle threshold in seconds
  APPTRACK_REPORT_DIR       Directory for daily CSV reports
  APPTRACK_LOG_PATH         Diagnostics log file path
  APPTRACK_PID_FILE         PID file path
  APPTRACK_EXCLUDE_IDLE     Exclude idle time from reports (true/false)

Version: %s
`, version)
}

func startDaemon(withWeb bool) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon is already running (PID: %d)", pid)
	}

	if os.Getenv("APPTRACK_DAEMON_CHILD") != "1" {
		daemonize(cfg, withWeb)
		return
	}

	runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) {
	// Redirect diagnostics to the configured log file
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0755); err == nil {
		logFile, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(logFile)
			defer logFile.Close()
		}
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	src, err := detector.New()
	if err != nil {
		log.Fatalf("Failed to initialize window source: %v", err)
	}
	defer src.Close()

	log.Printf("Window source initialized: %s", src.GetDisplayServer())

	monitor := newInputMonitor(cfg.Tracker.PollInterval)
	defer monitor.Close()
	log.Printf("Input monitor initialized: %s", monitor.Name())

	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	repo := database.NewRepository(db)
	sink := report.NewCSVSink(cfg.Report.Dir)
	trackerSvc := tracker.NewService(cfg, src, sink, repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Input monitor runs beside the tracker; its only interaction is the
	// activity timestamp.
	go func() {
		if err := monitor.Run(ctx, trackerSvc.NoteActivity); err != nil && err != context.Canceled {
			log.Printf("Input monitor error: %v", err)
		}
	}()

	var webServer *web.Server
	if withWeb {
		webServer = web.NewServer(cfg, repo)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Web server error: %v", err)
			}
		}()
		log.Printf("Web API available at: http://%s", webServer.GetAddress())
	}

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
		trackerSvc.Stop()
	}()

	log.Println("Starting apptrack daemon...")
	log.Printf("Configuration:\n%s", cfg.String())

	if err := trackerSvc.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Tracker error: %v", err)
	}

	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}

	log.Println("Daemon stopped successfully")
}

// newInputMonitor prefers the X11 ScreenSaver idle counter and falls back to
// pointer-position polling when the extension cannot be reached.
func newInputMonitor(interval time.Duration) input.Monitor {
	if mon, err := inputx11.NewMonitor(interval); err == nil {
		return mon
	}
	return mouse.NewMonitor(interval)
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop daemon: %v", err)
	}

	fmt.Println("Daemon stopped successfully")
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Status: Not running")
		// Still show current window detection even when not running
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Poll Interval: %v\n", cfg.Tracker.PollInterval)
		fmt.Printf("Idle Threshold: %v\n", cfg.Tracker.IdleThreshold)
		fmt.Printf("Report Dir: %s\n", cfg.Report.Dir)
		fmt.Printf("Database: %s\n", cfg.Database.Path)
	}

	src, err := detector.New()
	if err != nil {
		fmt.Printf("\nCould not detect current window: %v\n", err)
		return
	}
	defer src.Close()

	windowInfo, err := src.GetActiveWindow()
	if err != nil {
		fmt.Printf("\nCould not detect current window: %v\n", err)
		return
	}
	if windowInfo == nil {
		fmt.Println("\nNo window focused")
		return
	}

	fmt.Printf("\nCurrent Window:\n")
	fmt.Printf("  Title: %s\n", windowInfo.Title)
	fmt.Printf("  App: %s\n", windowInfo.AppName)
	fmt.Printf("  Display: %s\n", windowInfo.DisplayServer)
}

func generateReport() {
	periodType := "day"
	if len(os.Args) > 2 {
		periodType = os.Args[2]
	}

	cfg := config.New()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	rep := reporter.New(cfg, repo)

	jsonOutput := false
	if len(os.Args) > 3 && os.Args[3] == "--json" {
		jsonOutput = true
	}

	result, err := rep.GenerateReport(periodType)
	if err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}

	if jsonOutput {
		jsonStr, err := rep.FormatReportJSON(result)
		if err != nil {
			log.Fatalf("Failed to format JSON: %v", err)
		}
		fmt.Println(jsonStr)
	} else {
		fmt.Println(rep.FormatReportText(result))
	}
}

func clearDatabase() {
	cfg := config.New()

	fmt.Print("This will delete all tracking data. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	if err := repo.Clear(); err != nil {
		log.Fatalf("Failed to clear database: %v", err)
	}

	fmt.Println("Database cleared successfully")
}

func daemonize(cfg *config.Config, withWeb bool) {
	env := os.Environ()
	env = append(env, "APPTRACK_DAEMON_CHILD=1")

	args := os.Args

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
		Sys: &syscall.SysProcAttr{
			Setsid: true, // Create new session
		},
	}

	process, err := os.StartProcess(args[0], args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", cfg.Log.Path)
}
