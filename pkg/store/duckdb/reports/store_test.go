package reports

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/iac-cost/pkg/models/store"
	"github.com/de-tools/iac-cost/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	s, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: s,
	}
}

func sampleReport(id string, generatedAt time.Time) *store.Report {
	return &store.Report{
		ID:            id,
		Template:      "main.bicep",
		Region:        "eastus",
		Currency:      "USD",
		GeneratedAt:   generatedAt,
		TotalMonthly:  146,
		TotalYearly:   1752,
		ResourceCount: 3,
		Payload:       []byte(`{"id":"` + id + `"}`),
		Items: []store.LineItem{
			{ResourceName: "web", ResourceType: "Microsoft.Web/serverfarms", SKU: "S1", Location: "eastus", Count: 1, Monthly: 73},
			{ResourceName: "vm", ResourceType: "Microsoft.Compute/virtualMachines", SKU: "Standard_B2s", Location: "eastus", Count: 2, Monthly: 36.5},
		},
	}
}

func TestNewStore(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := setupFixture(t)
		assert.NotNil(t, f.store)
	})

	t.Run("nil db", func(t *testing.T) {
		s, err := NewStore(nil)
		assert.Error(t, err)
		assert.Nil(t, s)
	})
}

func TestReportStore_SaveAndGet(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	generatedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.store.Save(ctx, sampleReport("r-1", generatedAt)))

	got, err := f.store.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.Equal(t, "main.bicep", got.Template)
	assert.Equal(t, "eastus", got.Region)
	assert.Equal(t, generatedAt, got.GeneratedAt)
	assert.Equal(t, 146.0, got.TotalMonthly)
	assert.Equal(t, 3, got.ResourceCount)
	assert.JSONEq(t, `{"id":"r-1"}`, string(got.Payload))

	require.Len(t, got.Items, 2)
	assert.Equal(t, "vm", got.Items[0].ResourceName)
	assert.Equal(t, 2, got.Items[0].Count)
	assert.Equal(t, "r-1", got.Items[0].ReportID)
	assert.Equal(t, "web", got.Items[1].ResourceName)

	t.Run("duplicate id", func(t *testing.T) {
		err := f.store.Save(ctx, sampleReport("r-1", generatedAt))
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := f.store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		assert.Error(t, f.store.Save(ctx, &store.Report{}))
		assert.Error(t, f.store.Save(ctx, nil))
	})
}

func TestReportStore_List(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		report := sampleReport(id, base.Add(time.Duration(i)*time.Hour))
		report.Items = nil
		require.NoError(t, f.store.Save(ctx, report))
	}

	summaries, err := f.store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "c", summaries[0].ID)
	assert.Equal(t, "a", summaries[2].ID)
	assert.Equal(t, base, summaries[2].GeneratedAt)

	summaries, err = f.store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}

func TestReportStore_SaveInCallerTransaction(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	tx, err := f.db.BeginTx(ctx, &sql.TxOptions{})
	require.NoError(t, err)

	require.NoError(t, f.store.Save(duckdb.WithTransaction(ctx, tx), sampleReport("tx-1", time.Now())))
	require.NoError(t, tx.Rollback())

	_, err = f.store.Get(ctx, "tx-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportStore_SaveRollsBackOnLineItemFailure(t *testing.T) {
	// Given
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)
	report := sampleReport("r-2", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO estimate_reports")).
		WithArgs("r-2", "main.bicep", "eastus", "USD", sqlmock.AnyArg(), 146.0, 1752.0, 3, `{"id":"r-2"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO estimate_line_items")).
		ExpectExec().
		WithArgs("r-2", "web", "Microsoft.Web/serverfarms", "S1", "eastus", 1, 73.0).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	// When
	err = s.Save(context.Background(), report)

	// Then
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert line item: disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportStore_ListQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s, err := NewStore(db)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM estimate_reports")).
		WithArgs(DefaultListLimit).
		WillReturnError(errors.New("connection reset"))

	_, err = s.List(context.Background(), -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list reports")
	assert.NoError(t, mock.ExpectationsWereMet())
}
