package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ReportsTableSchema = `
	CREATE TABLE IF NOT EXISTS estimate_reports (
		id VARCHAR PRIMARY KEY,
		template VARCHAR NOT NULL,
		region VARCHAR NOT NULL,
		currency VARCHAR NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		total_monthly DOUBLE NOT NULL,
		total_yearly DOUBLE NOT NULL,
		resource_count INTEGER NOT NULL,
		payload VARCHAR NOT NULL
	);
`
const LineItemsTableSchema = `
	CREATE TABLE IF NOT EXISTS estimate_line_items (
		report_id VARCHAR NOT NULL,
		resource_name VARCHAR NOT NULL,
		resource_type VARCHAR NOT NULL,
		sku VARCHAR,
		location VARCHAR,
		instance_count INTEGER NOT NULL,
		monthly DOUBLE NOT NULL
	);
`

var bootQueries = []string{
	ReportsTableSchema,
	LineItemsTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
