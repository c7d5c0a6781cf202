package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgoj/joblog/internal/config"
)

func main() {
	flag.Parse()

	if len(flag.Args()) < 1 {
		fmt.Println("Error: Config file path is required")
		fmt.Println("Usage: config-validator <config-file>")
		os.Exit(1)
	}
	configPath := flag.Args()[0]

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, warning := range checkPaths(cfg) {
		fmt.Printf("Warning: %s\n", warning)
	}

	fmt.Println("Configuration is valid!")
}

// checkPaths reports data paths that are unlikely to work. They are warnings
// only, the folder may live on a device this machine does not see.
func checkPaths(cfg *config.Config) []string {
	var warnings []string
	for env, path := range map[string]string{"prod": cfg.Paths.Prod, "local": cfg.Paths.Local} {
		if !filepath.IsAbs(path) {
			warnings = append(warnings, fmt.Sprintf("paths.%s '%s' is not absolute", env, path))
		}
	}
	return warnings
}
