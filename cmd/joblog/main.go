package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/orgoj/joblog/internal/config"
	"github.com/orgoj/joblog/internal/logger"
	"github.com/orgoj/joblog/internal/tracking"
	"github.com/orgoj/joblog/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin))
}

func run(args []string, stdin io.Reader) int {
	fs := flag.NewFlagSet("joblog", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to the configuration file (default: $JOBLOG_CONFIG or built-in defaults)")
	name := fs.String("name", "", "Job name: "+joinNames())
	levelName := fs.String("level", "INFO", "Level for the message: DEBUG, INFO, WARNING, ERROR or CRITICAL")
	showVersion := fs.Bool("version", false, "Show version information and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Println(version.VersionInfo())
		return 0
	}

	cfg, envVars, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[CRITICAL] Failed to load configuration: %v\n", err)
		return 1
	}

	appLogger := logger.GetAppLogger()
	minLevel := logger.LevelFromEnv(envVars.LogLevel)
	appLogger.SetLogLevel(minLevel)

	jobName, err := logger.ParseName(*name)
	if err != nil {
		fmt.Printf("[CRITICAL] %v\n", err)
		return 1
	}
	level, err := logger.ParseLevel(*levelName)
	if err != nil {
		fmt.Printf("[CRITICAL] %v\n", err)
		return 1
	}

	provider := logger.NewProvider(cfg,
		logger.WithRegistrar(tracking.NewRegistrar(cfg, tracking.WithAppLogger(appLogger))),
		logger.WithAppLogger(appLogger),
	)
	defer provider.Close()

	lgr, err := provider.Get(jobName)
	if err != nil {
		fmt.Printf("[CRITICAL] Failed to initialize logger '%s': %v\n", jobName, err)
		return 1
	}

	if level < minLevel {
		return 0
	}

	if fs.NArg() > 0 {
		lgr.Log(level, strings.Join(fs.Args(), " "))
		return 0
	}

	// No message arguments: log every line piped in
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); line != "" {
			lgr.Log(level, line)
		}
	}
	if err := scanner.Err(); err != nil {
		lgr.Exception(err, "Failed to read stdin")
		return 1
	}
	return 0
}

func joinNames() string {
	names := make([]string, len(logger.Names))
	for i, n := range logger.Names {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}
