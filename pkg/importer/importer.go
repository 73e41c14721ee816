// Package importer loads item inventory from Excel workbooks. Fleets arrive
// as spreadsheets; this upserts one item per row, keyed by item_id.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tealeg/xlsx/v3"
	"gopkg.in/yaml.v3"
)

// ImportOptions defines the configuration for Excel import operations
type ImportOptions struct {
	MappingPath string // optional header-alias YAML; built-in aliases when empty
	DryRun      bool
	MaxErrors   int // default 50
}

// RowError represents an error that occurred during row processing
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// SheetSummary contains the import statistics for a single sheet
type SheetSummary struct {
	Name     string     `json:"name"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Errors   int        `json:"errors"`
	Samples  []RowError `json:"error_samples,omitempty"`
}

// ImportSummary contains the overall import statistics
type ImportSummary struct {
	Inserted int            `json:"inserted"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Errors   int            `json:"errors"`
	Sheets   []SheetSummary `json:"sheets"`
	DryRun   bool           `json:"dry_run"`
}

// MappingConfig maps spreadsheet column headers onto item fields.
type MappingConfig struct {
	Version         int                 `yaml:"version"`
	Aliases         map[string][]string `yaml:"aliases"`
	DefaultCategory string              `yaml:"default_category"`
}

// itemFields are the columns an import sheet can carry.
var itemFields = []string{"item_id", "name", "category"}

func defaultMapping() MappingConfig {
	return MappingConfig{
		Version: 1,
		Aliases: map[string][]string{
			"item_id":  {"item id", "id", "tag", "asset tag", "asset_tag"},
			"name":     {"item name", "asset name", "description"},
			"category": {"type", "group", "kind"},
		},
		DefaultCategory: "General",
	}
}

func loadMappingConfig(path string) (MappingConfig, error) {
	if path == "" {
		return defaultMapping(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return MappingConfig{}, fmt.Errorf("reading mapping file: %w", err)
	}
	cfg := defaultMapping()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return MappingConfig{}, fmt.Errorf("parsing mapping file: %w", err)
	}
	return cfg, nil
}

// fieldForHeader resolves a sheet header to an item field, or "" when the
// column is not recognized.
func (m MappingConfig) fieldForHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, field := range itemFields {
		if h == field {
			return field
		}
		for _, alias := range m.Aliases[field] {
			if h == strings.ToLower(alias) {
				return field
			}
		}
	}
	return ""
}

// ImportExcel processes an Excel workbook and upserts items. With DryRun the
// whole run happens inside a transaction that is rolled back at the end.
func ImportExcel(ctx context.Context, db *pgxpool.Pool, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	summary := ImportSummary{
		DryRun: opts.DryRun,
		Sheets: []SheetSummary{},
	}

	if opts.MaxErrors == 0 {
		opts.MaxErrors = 50
	}

	mapping, err := loadMappingConfig(opts.MappingPath)
	if err != nil {
		return summary, fmt.Errorf("failed to load mapping config: %w", err)
	}

	// xlsx needs an io.ReaderAt, so slurp the upload first.
	data, err := io.ReadAll(r)
	if err != nil {
		return summary, fmt.Errorf("failed to read Excel file: %w", err)
	}

	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return summary, fmt.Errorf("failed to open Excel file: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, sheet := range xlFile.Sheets {
		sheetSummary, err := importSheet(ctx, tx, sheet, mapping, opts)
		if err != nil {
			return summary, fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
		summary.Inserted += sheetSummary.Inserted
		summary.Updated += sheetSummary.Updated
		summary.Skipped += sheetSummary.Skipped
		summary.Errors += sheetSummary.Errors
		summary.Sheets = append(summary.Sheets, sheetSummary)
	}

	if !opts.DryRun {
		if err := tx.Commit(ctx); err != nil {
			return summary, fmt.Errorf("failed to commit import: %w", err)
		}
	}
	return summary, nil
}

func importSheet(ctx context.Context, tx pgx.Tx, sheet *xlsx.Sheet, mapping MappingConfig, opts ImportOptions) (SheetSummary, error) {
	summary := SheetSummary{Name: sheet.Name}

	var cols []string // header row resolved to field names, "" for unknown
	rowNum := 0
	err := sheet.ForEachRow(func(row *xlsx.Row) error {
		rowNum++

		values := []string{}
		row.ForEachCell(func(cell *xlsx.Cell) error { //nolint:errcheck
			values = append(values, strings.TrimSpace(cell.String()))
			return nil
		})

		if rowNum == 1 {
			cols = make([]string, len(values))
			for i, header := range values {
				cols[i] = mapping.fieldForHeader(header)
			}
			return nil
		}

		fields := map[string]string{}
		for i, v := range values {
			if i < len(cols) && cols[i] != "" && v != "" {
				fields[cols[i]] = v
			}
		}

		if fields["item_id"] == "" && fields["name"] == "" {
			summary.Skipped++ // blank row
			return nil
		}
		if fields["item_id"] == "" || fields["name"] == "" {
			summary.Errors++
			if len(summary.Samples) < opts.MaxErrors {
				summary.Samples = append(summary.Samples, RowError{
					Sheet:   sheet.Name,
					Row:     rowNum,
					Message: "item_id and name are required",
				})
			}
			return nil
		}
		if fields["category"] == "" {
			fields["category"] = mapping.DefaultCategory
		}

		var inserted bool
		err := tx.QueryRow(ctx, `
			INSERT INTO items (item_id, name, category, status, last_condition, last_updated)
			VALUES ($1, $2, $3, 'Available', 'Good', now())
			ON CONFLICT (item_id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				last_updated = now()
			RETURNING (xmax = 0)`,
			fields["item_id"], fields["name"], fields["category"]).Scan(&inserted)
		if err != nil {
			summary.Errors++
			if len(summary.Samples) < opts.MaxErrors {
				summary.Samples = append(summary.Samples, RowError{
					Sheet:   sheet.Name,
					Row:     rowNum,
					Message: err.Error(),
				})
			}
			return nil
		}
		if inserted {
			summary.Inserted++
		} else {
			summary.Updated++
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	return summary, nil
}
