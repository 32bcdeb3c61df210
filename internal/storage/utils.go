package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// GenerateExportFolderPath generates a consistent folder path for chart exports
// Format: YYYY/MM/DD/BudgetCharts-YYYY-MM-DD-HH-MM-SS
func GenerateExportFolderPath(timestamp time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/BudgetCharts-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".md":
		return "text/markdown"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// cleanPath normalizes a storage path to forward slashes without leading or trailing separators
func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}
