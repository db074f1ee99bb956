package import_feature

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	common_models "go-telecrm/internal/common/models"
	"go-telecrm/internal/features/lead"
	sync_feature "go-telecrm/internal/features/sync"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ImportService ingests manual CSV/xlsx spreadsheets as the walk-in and
// loss-of-sale channels.
type ImportService interface {
	ImportFile(ctx context.Context, file io.Reader, filename string, channel common_models.SyncType, reimport bool) (*sync_feature.Outcome, error)
}

type ImportServiceImpl struct {
	Resolver *lead.Resolver
	Tracker  *sync_feature.Tracker
	Logger   *zap.Logger
}

func NewImportService(resolver *lead.Resolver, tracker *sync_feature.Tracker, logger *zap.Logger) ImportService {
	return &ImportServiceImpl{
		Resolver: resolver,
		Tracker:  tracker,
		Logger:   logger,
	}
}

// ImportFile parses the sheet, feeds every row through the resolver and
// commits a sync-log entry for the channel. Individual bad rows become
// skipped/failed counts; only an unreadable file aborts.
func (s *ImportServiceImpl) ImportFile(ctx context.Context, file io.Reader, filename string, channel common_models.SyncType, reimport bool) (*sync_feature.Outcome, error) {
	if channel != common_models.SyncTypeWalkIn && channel != common_models.SyncTypeLossOfSale {
		return nil, fmt.Errorf("channel %q does not accept file imports", channel)
	}

	var rows []map[string]interface{}
	var err error

	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		rows, err = parseCSV(file)
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		rows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format")
	}
	if err != nil {
		return nil, err
	}

	outcome := &sync_feature.Outcome{}
	for _, row := range rows {
		cand := lead.MapRow(row, channel)
		cand.Reimport = reimport
		if cand.Source == "" {
			cand.Source = "import:" + filename
		}

		res := s.Resolver.Resolve(ctx, &cand)
		outcome.Record(string(res.Status), res.Reason, res.Err)
	}

	if err := s.Tracker.Commit(ctx, channel, common_models.SyncTriggerManual, outcome); err != nil {
		return nil, fmt.Errorf("commit import log: %w", err)
	}

	s.Logger.Info("import finished",
		zap.String("channel", string(channel)),
		zap.String("file", filename),
		zap.Int("created", outcome.Created),
		zap.Int("updated", outcome.Updated),
		zap.Int("skipped", outcome.Skipped),
		zap.Int("failed", outcome.Failed))

	return outcome, nil
}

func parseCSV(file io.Reader) ([]map[string]interface{}, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows []map[string]interface{}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := make(map[string]interface{}, len(headers))
		for i, value := range rec {
			if i < len(headers) {
				row[headers[i]] = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func parseExcel(file io.Reader) ([]map[string]interface{}, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	headers := records[0]
	var rows []map[string]interface{}
	for _, rec := range records[1:] {
		row := make(map[string]interface{}, len(headers))
		for i, value := range rec {
			if i < len(headers) {
				row[headers[i]] = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
