package fetchers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"budgetboard/internal/config"
	"budgetboard/internal/logger"
	"budgetboard/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Options configures a BudgetFetcher
type Options struct {
	BaseURL    string
	PiePath    string
	BarPath    string
	Timeout    time.Duration
	RetryCount int
}

// BudgetFetcher fetches budget records from the budget backend
type BudgetFetcher struct {
	client     *resty.Client
	baseURL    string
	piePath    string
	barPath    string
	normalizer *DataNormalizer
	log        *logger.Logger
}

// NewBudgetFetcher creates a fetcher for the given backend
func NewBudgetFetcher(opts Options) *BudgetFetcher {
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(opts.RetryCount)
	client.SetRetryWaitTime(500 * time.Millisecond)
	client.SetHeader("Accept", "application/json")

	return &BudgetFetcher{
		client:     client,
		baseURL:    baseURL,
		piePath:    opts.PiePath,
		barPath:    opts.BarPath,
		normalizer: NewDataNormalizer(),
		log:        logger.GetGlobalLogger().WithComponent("fetchers"),
	}
}

// NewBudgetFetcherFromConfig creates a fetcher from service configuration
func NewBudgetFetcherFromConfig(cfg *config.Config) *BudgetFetcher {
	return NewBudgetFetcher(Options{
		BaseURL:    cfg.BudgetAPIURL,
		PiePath:    cfg.BudgetPiePath,
		BarPath:    cfg.BudgetBarPath,
		Timeout:    cfg.HTTPTimeout,
		RetryCount: cfg.HTTPRetryCount,
	})
}

// FetchPieData fetches the pie endpoint and normalizes it into parallel arrays
func (f *BudgetFetcher) FetchPieData(ctx context.Context) (*models.PieDataset, error) {
	records, err := f.fetchRecords(ctx, f.piePath)
	if err != nil {
		return nil, err
	}
	return f.normalizer.NormalizeForPie(records), nil
}

// FetchBarData fetches the bar endpoint and returns the rows unchanged
func (f *BudgetFetcher) FetchBarData(ctx context.Context) ([]models.BudgetRecord, error) {
	return f.fetchRecords(ctx, f.barPath)
}

func (f *BudgetFetcher) fetchRecords(ctx context.Context, path string) ([]models.BudgetRecord, error) {
	url := f.baseURL + path

	resp, err := f.client.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, &NetworkError{URL: url, Reason: ReasonTransport, Err: errors.Wrap(err, "request failed")}
	}

	if !resp.IsSuccess() {
		return nil, &NetworkError{URL: url, Reason: ReasonStatus, StatusCode: resp.StatusCode()}
	}

	var payload models.BudgetResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, &NetworkError{URL: url, Reason: ReasonDecode, StatusCode: resp.StatusCode(), Err: errors.Wrap(err, "failed to parse budget response")}
	}
	if err := payload.Validate(); err != nil {
		return nil, &NetworkError{URL: url, Reason: ReasonDecode, StatusCode: resp.StatusCode(), Err: err}
	}

	f.log.Debug("Fetched budget records", map[string]interface{}{
		"url":     url,
		"records": len(payload.MyBudget),
		"elapsed": resp.Time().String(),
	})

	return payload.MyBudget, nil
}
