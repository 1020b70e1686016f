package artifacts

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/jdlee-quant/rebound/internal/contracts"
	"github.com/jdlee-quant/rebound/pkg/logger"
)

// Artifact file names.
const (
	ScreeningFile  = "daily_screening_results.csv"
	SnapshotsFile  = "portfolio_snapshots.csv"
	CandidatesFile = "top_candidates.csv"
)

const dateLayout = "2006-01-02"

// Writer maintains the three CSV artifacts. Each write appends the
// run's rows after dropping any existing rows for the same date, so a
// rerun for one day replaces that day instead of duplicating it.
type Writer struct {
	store  BlobStore
	logger *logger.Logger
}

// NewWriter creates a CSV artifact writer over the blob store.
func NewWriter(store BlobStore, logger *logger.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// WriteAll emits all three artifacts for one run.
func (w *Writer) WriteAll(ctx context.Context, screening *contracts.ScreeningResult, snapshot *contracts.PortfolioSnapshot) error {
	if screening != nil {
		if err := w.WriteScreening(ctx, screening); err != nil {
			return err
		}
		if err := w.WriteTopCandidates(ctx, screening); err != nil {
			return err
		}
	}
	if snapshot != nil {
		if err := w.WriteSnapshot(ctx, snapshot); err != nil {
			return err
		}
	}
	return nil
}

// WriteScreening appends one row per ranked ticker to
// daily_screening_results.csv.
func (w *Writer) WriteScreening(ctx context.Context, res *contracts.ScreeningResult) error {
	header := []string{"date", "ticker", "close", "trailing_high", "drawdown_ratio", "rank"}
	date := res.AsOf.Format(dateLayout)

	rows := make([][]string, 0, len(res.Candidates.Records))
	for _, rec := range res.Candidates.Records {
		rows = append(rows, screeningRow(date, rec))
	}

	return w.appendForDate(ctx, ScreeningFile, header, date, rows)
}

// WriteTopCandidates appends the rank <= K slice of the screening
// output to top_candidates.csv, same schema as the full results file.
func (w *Writer) WriteTopCandidates(ctx context.Context, res *contracts.ScreeningResult) error {
	header := []string{"date", "ticker", "close", "trailing_high", "drawdown_ratio", "rank"}
	date := res.AsOf.Format(dateLayout)

	top := res.Candidates.TopK(res.TopK)
	rows := make([][]string, 0, len(top))
	for _, rec := range top {
		rows = append(rows, screeningRow(date, rec))
	}

	return w.appendForDate(ctx, CandidatesFile, header, date, rows)
}

// WriteSnapshot appends one row per position to portfolio_snapshots.csv.
// Closed positions appear with status CLOSED on their exit date.
func (w *Writer) WriteSnapshot(ctx context.Context, snap *contracts.PortfolioSnapshot) error {
	header := []string{"date", "ticker", "entry_price", "entry_date", "current_price", "gain_ratio", "status"}
	date := snap.AsOf.Format(dateLayout)

	rows := make([][]string, 0, len(snap.Positions)+len(snap.Closed))
	for i := range snap.Positions {
		p := &snap.Positions[i]
		status := contracts.StatusHeld
		switch {
		case p.Stale:
			status = contracts.StatusStale
		case p.EntryDate.Format(dateLayout) == date:
			status = contracts.StatusOpened
		}
		rows = append(rows, []string{
			date,
			p.Ticker,
			formatFloat(p.EntryPrice),
			p.EntryDate.Format(dateLayout),
			formatFloat(p.CurrentPrice),
			formatFloat(p.GainRatio()),
			string(status),
		})
	}
	for i := range snap.Closed {
		c := &snap.Closed[i]
		rows = append(rows, []string{
			date,
			c.Ticker,
			formatFloat(c.EntryPrice),
			c.EntryDate.Format(dateLayout),
			formatFloat(c.ExitPrice),
			formatFloat(c.GainRatio()),
			string(contracts.StatusClosed),
		})
	}

	return w.appendForDate(ctx, SnapshotsFile, header, date, rows)
}

// appendForDate rewrites the artifact with existing rows for other
// dates preserved, rows for this date replaced.
func (w *Writer) appendForDate(ctx context.Context, key string, header []string, date string, rows [][]string) error {
	existing, err := w.readRows(ctx, key, header)
	if err != nil {
		return err
	}

	kept := existing[:0]
	for _, row := range existing {
		if len(row) > 0 && row[0] == date {
			continue
		}
		kept = append(kept, row)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(kept); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	if err := w.store.Write(ctx, key, buf.Bytes()); err != nil {
		return err
	}

	w.logger.WithFields(map[string]interface{}{
		"artifact": key,
		"date":     date,
		"rows":     len(rows),
	}).Info("Artifact updated")
	return nil
}

// readRows loads existing data rows, skipping the header. A missing
// artifact is an empty one.
func (w *Writer) readRows(ctx context.Context, key string, header []string) ([][]string, error) {
	data, err := w.store.Read(ctx, key)
	if errors.Is(err, ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse existing %s: %w", key, err)
	}
	if len(records) > 0 && len(records[0]) == len(header) && records[0][0] == header[0] {
		records = records[1:]
	}
	return records, nil
}

func screeningRow(date string, rec contracts.DrawdownRecord) []string {
	return []string{
		date,
		rec.Ticker,
		formatFloat(rec.CurrentPrice),
		formatFloat(rec.TrailingHigh),
		formatFloat(rec.DrawdownRatio),
		strconv.Itoa(rec.Rank),
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
