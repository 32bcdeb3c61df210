package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"budgetboard/internal/logger"
	"budgetboard/internal/models"
	"budgetboard/internal/page"
	"budgetboard/internal/storage"
)

// GeneratedFiles is one export of the budget page, keyed by file name
type GeneratedFiles struct {
	FolderPath string
	Files      map[string][]byte
}

// Names returns the file names in a stable order
func (g *GeneratedFiles) Names() []string {
	names := make([]string, 0, len(g.Files))
	for name := range g.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// exportData is the machine-readable copy of what the charts show
type exportData struct {
	SnapshotID  string                `json:"snapshotId"`
	GeneratedAt time.Time             `json:"generatedAt"`
	Version     string                `json:"version,omitempty"`
	PieBackend  string                `json:"pieBackend"`
	PieState    string                `json:"pieState"`
	Pie         *models.PieDataset    `json:"pie,omitempty"`
	MyBudget    []models.BudgetRecord `json:"myBudget"`
}

// StorageOrchestrator handles the business logic of building and storing exports
type StorageOrchestrator struct {
	storage storage.StorageClient
	builder *HTMLBuilder
	version string
	log     *logger.Logger
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient, builder *HTMLBuilder, version string, log *logger.Logger) *StorageOrchestrator {
	if log == nil {
		log = logger.NewNop()
	}
	return &StorageOrchestrator{
		storage: client,
		builder: builder,
		version: version,
		log:     log.WithComponent("export"),
	}
}

// pieFileName picks the file name for the pie chart content, or "" when there is nothing to store
func pieFileName(snap *page.Snapshot) string {
	if len(snap.PieContent) == 0 {
		return ""
	}
	if strings.HasPrefix(snap.PieContentType, "text/html") {
		return "pie.html"
	}
	return "pie.png"
}

// GenerateFiles builds every file of an export from snap
func (so *StorageOrchestrator) GenerateFiles(snap *page.Snapshot) (*GeneratedFiles, error) {
	files := &GeneratedFiles{
		FolderPath: storage.GenerateExportFolderPath(snap.TakenAt),
		Files:      make(map[string][]byte),
	}

	pieFile := pieFileName(snap)
	if pieFile != "" {
		files.Files[pieFile] = snap.PieContent
	}
	if snap.HasBar() {
		files.Files["bar.svg"] = snap.BarSVG
	}

	html, err := so.builder.BuildPage(snap, PageOptions{
		Version:     so.version,
		PieURL:      pieFile,
		CSSFilePath: "styles.css",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build page: %w", err)
	}
	files.Files["index.html"] = []byte(html)

	css, err := so.builder.GenerateStaticCSS()
	if err != nil {
		return nil, err
	}
	files.Files["styles.css"] = []byte(css)

	records := snap.BarRecords
	if records == nil {
		records = []models.BudgetRecord{}
	}
	data, err := json.MarshalIndent(exportData{
		SnapshotID:  snap.ID,
		GeneratedAt: snap.TakenAt,
		Version:     so.version,
		PieBackend:  snap.PieBackend,
		PieState:    snap.PieState.String(),
		Pie:         snap.PieData,
		MyBudget:    records,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export data: %w", err)
	}
	files.Files["budget.json"] = data

	return files, nil
}

// StoreAllFiles writes every generated file under its folder
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) error {
	if err := so.storage.CreateDir(ctx, files.FolderPath); err != nil {
		return fmt.Errorf("failed to create export folder: %w", err)
	}

	for _, name := range files.Names() {
		if err := so.storage.StoreFile(ctx, path.Join(files.FolderPath, name), files.Files[name]); err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
	}

	so.log.Info("Export stored", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  len(files.Files),
	})
	return nil
}

// Export generates and stores the files for snap and returns the folder they were written to
func (so *StorageOrchestrator) Export(ctx context.Context, snap *page.Snapshot) (string, error) {
	files, err := so.GenerateFiles(snap)
	if err != nil {
		return "", err
	}
	if err := so.StoreAllFiles(ctx, files); err != nil {
		return "", err
	}
	return files.FolderPath, nil
}
