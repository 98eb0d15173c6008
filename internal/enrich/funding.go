package enrich

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/frenchtechupdates/talent-match/internal/models"
)

// headerName is the sentinel first-column value of the feed's header row.
const headerName = "Startup"

// FundingTable caches the French Tech funding spreadsheet. Rows come from a
// published CSV export and optionally a local XLSX workbook; both sources are
// merged, CSV first. The cache refreshes lazily after ttl and eagerly via
// Refresh. A feed failure degrades to whatever was cached before, or an
// empty table on cold start.
type FundingTable struct {
	csvURL   string
	xlsxPath string
	ttl      time.Duration
	http     *http.Client
	logger   *slog.Logger

	mu        sync.Mutex
	records   []models.FundingRecord
	fetchedAt time.Time
}

// NewFundingTable builds a table over the given sources. Either csvURL or
// xlsxPath may be empty. httpClient may be nil; logger may be nil.
func NewFundingTable(csvURL, xlsxPath string, ttl time.Duration, httpClient *http.Client, logger *slog.Logger) *FundingTable {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &FundingTable{
		csvURL:   csvURL,
		xlsxPath: xlsxPath,
		ttl:      ttl,
		http:     httpClient,
		logger:   logger,
	}
}

// Records returns the cached rows, reloading first if the cache is stale.
// It never fails: load errors are logged and the previous rows returned.
func (t *FundingTable) Records(ctx context.Context) []models.FundingRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	if time.Since(t.fetchedAt) >= t.ttl {
		t.reloadLocked(ctx)
	}
	return t.records
}

// Lookup finds a row by case-insensitive exact company name. The second
// return is false when the company is absent or the table is empty.
func (t *FundingTable) Lookup(ctx context.Context, company string) (models.FundingRecord, bool) {
	needle := strings.ToLower(strings.TrimSpace(company))
	for _, rec := range t.Records(ctx) {
		if strings.ToLower(rec.Name) == needle {
			return rec, true
		}
	}
	return models.FundingRecord{}, false
}

// Refresh reloads the table regardless of age. Wired to the hourly cron.
func (t *FundingTable) Refresh(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reloadLocked(ctx)
}

func (t *FundingTable) reloadLocked(ctx context.Context) {
	var rows []models.FundingRecord

	if t.csvURL != "" {
		fetched, err := t.fetchCSV(ctx)
		if err != nil {
			t.logger.Warn("funding CSV fetch failed", "error", err)
		} else {
			rows = append(rows, fetched...)
		}
	}
	if t.xlsxPath != "" {
		fetched, err := readWorkbook(t.xlsxPath)
		if err != nil {
			t.logger.Warn("funding workbook read failed", "path", t.xlsxPath, "error", err)
		} else {
			rows = append(rows, fetched...)
		}
	}

	if rows == nil && t.records != nil {
		// Keep serving the stale copy rather than dropping to empty.
		t.fetchedAt = time.Now()
		return
	}

	t.records = rows
	t.fetchedAt = time.Now()
	t.logger.Info("funding table reloaded", "rows", len(t.records))
}

func (t *FundingTable) fetchCSV(ctx context.Context) ([]models.FundingRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.csvURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}
	return parseRows(csv.NewReader(resp.Body))
}

func parseRows(r *csv.Reader) ([]models.FundingRecord, error) {
	r.FieldsPerRecord = -1
	var records []models.FundingRecord
	for {
		cols, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read feed row: %w", err)
		}
		if rec, ok := rowToRecord(cols); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readWorkbook(path string) ([]models.FundingRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var records []models.FundingRecord
	for _, cols := range rows {
		if rec, ok := rowToRecord(cols); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// rowToRecord maps one row in feed column order (name, raised, industry,
// description, date), skipping blanks and the header row.
func rowToRecord(cols []string) (models.FundingRecord, bool) {
	col := func(i int) string {
		if i < len(cols) {
			return strings.TrimSpace(cols[i])
		}
		return ""
	}
	name := col(0)
	if name == "" || name == headerName {
		return models.FundingRecord{}, false
	}
	return models.FundingRecord{
		Name:        name,
		Raised:      col(1),
		Industry:    col(2),
		Description: col(3),
		Date:        col(4),
	}, true
}
