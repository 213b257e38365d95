package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/iac-cost/pkg/models/store"
	"github.com/de-tools/iac-cost/pkg/store/duckdb"
)

const DefaultListLimit = 50

var ErrNotFound = errors.New("report not found")

// Store archives generated estimates. Save joins a transaction carried in
// the context (duckdb.WithTransaction) and otherwise opens its own.
type Store interface {
	Save(ctx context.Context, report *store.Report) error
	Get(ctx context.Context, id string) (*store.Report, error)
	List(ctx context.Context, limit int) ([]store.ReportSummary, error)
}

type reportStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &reportStore{
		db: db,
	}, nil
}

const insertReport = `
	INSERT INTO estimate_reports (
		id, template, region, currency, generated_at,
		total_monthly, total_yearly, resource_count, payload
	) VALUES (
		?, ?, ?, ?, ?, ?, ?, ?, ?
	)`

const insertLineItem = `
	INSERT INTO estimate_line_items (
		report_id, resource_name, resource_type, sku, location, instance_count, monthly
	) VALUES (
		?, ?, ?, ?, ?, ?, ?
	)`

func (s *reportStore) Save(ctx context.Context, report *store.Report) error {
	if report == nil || report.ID == "" {
		return fmt.Errorf("report id is required")
	}

	tx := duckdb.GetTransaction(ctx)
	if tx != nil {
		return s.save(ctx, tx, report)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := s.save(ctx, tx, report); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}

func (s *reportStore) save(ctx context.Context, tx *sql.Tx, report *store.Report) error {
	_, err := tx.ExecContext(ctx, insertReport,
		report.ID,
		report.Template,
		report.Region,
		report.Currency,
		report.GeneratedAt.UTC(),
		report.TotalMonthly,
		report.TotalYearly,
		report.ResourceCount,
		string(report.Payload),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	if len(report.Items) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, insertLineItem)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, item := range report.Items {
		_, err = stmt.ExecContext(ctx,
			report.ID,
			item.ResourceName,
			item.ResourceType,
			item.SKU,
			item.Location,
			item.Count,
			item.Monthly,
		)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}
	return nil
}

func (s *reportStore) Get(ctx context.Context, id string) (*store.Report, error) {
	query := `
		SELECT id, template, region, currency, generated_at,
		       total_monthly, total_yearly, resource_count, payload
		FROM estimate_reports
		WHERE id = ?
	`
	var (
		report  store.Report
		payload string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&report.ID,
		&report.Template,
		&report.Region,
		&report.Currency,
		&report.GeneratedAt,
		&report.TotalMonthly,
		&report.TotalYearly,
		&report.ResourceCount,
		&payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	report.GeneratedAt = report.GeneratedAt.UTC()
	report.Payload = []byte(payload)

	items, err := s.lineItems(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Items = items
	return &report, nil
}

func (s *reportStore) lineItems(ctx context.Context, id string) ([]store.LineItem, error) {
	query := `
		SELECT resource_name, resource_type, COALESCE(sku, ''), COALESCE(location, ''), instance_count, monthly
		FROM estimate_line_items
		WHERE report_id = ?
		ORDER BY monthly * instance_count DESC, resource_name
	`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	items := make([]store.LineItem, 0)
	for rows.Next() {
		item := store.LineItem{ReportID: id}
		if err := rows.Scan(&item.ResourceName, &item.ResourceType, &item.SKU, &item.Location, &item.Count, &item.Monthly); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List returns the newest reports first. A non-positive limit falls back to
// DefaultListLimit.
func (s *reportStore) List(ctx context.Context, limit int) ([]store.ReportSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `
		SELECT id, template, region, currency, generated_at, total_monthly, resource_count
		FROM estimate_reports
		ORDER BY generated_at DESC, id
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	summaries := make([]store.ReportSummary, 0)
	for rows.Next() {
		var (
			summary     store.ReportSummary
			generatedAt time.Time
		)
		if err := rows.Scan(
			&summary.ID,
			&summary.Template,
			&summary.Region,
			&summary.Currency,
			&generatedAt,
			&summary.TotalMonthly,
			&summary.ResourceCount,
		); err != nil {
			return nil, err
		}
		summary.GeneratedAt = generatedAt.UTC()
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
