package config

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// GetVersion returns version from environment variable or calculates from git
func GetVersion() string {
	// CI/CD sets this
	if envVersion := os.Getenv("APP_VERSION"); envVersion != "" {
		return envVersion
	}

	baseVersion := getBaseVersion()
	commitCount := getGitCommitCount()

	if commitCount > 0 {
		return baseVersion + "." + strconv.Itoa(commitCount)
	}

	return baseVersion
}

// getBaseVersion reads the base version from a VERSION file in the working directory or its parent
func getBaseVersion() string {
	for _, candidate := range []string{"VERSION", filepath.Join("..", "VERSION")} {
		if content, err := os.ReadFile(candidate); err == nil {
			if v := strings.TrimSpace(string(content)); v != "" {
				return v
			}
		}
	}

	return "0.1.0"
}

// getGitCommitCount gets the total commit count from git
func getGitCommitCount() int {
	cmd := exec.Command("git", "rev-list", "--count", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return 0
	}

	count, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return 0
	}

	return count
}
