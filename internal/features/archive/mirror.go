package archive

import (
	"context"
	"database/sql"
	"fmt"

	"go-telecrm/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// SQLMirror pushes archived leads into an external SQL reporting database so
// the BI side can query them without touching Mongo. Disabled when no driver
// is configured.
type SQLMirror struct {
	driver string
	dsn    string
	db     *sql.DB
}

func NewSQLMirror(cfg *config.Config) *SQLMirror {
	return &SQLMirror{
		driver: cfg.ArchiveDriver,
		dsn:    cfg.ArchiveDSN,
	}
}

func (m *SQLMirror) Enabled() bool {
	return m.driver != "" && m.dsn != ""
}

func (m *SQLMirror) connect(ctx context.Context) error {
	if m.db != nil {
		return nil
	}

	db, err := sql.Open(m.driver, m.dsn)
	if err != nil {
		return fmt.Errorf("failed to open reporting database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping reporting database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	m.db = db
	return nil
}

// Push inserts one archived lead into the reporting table.
func (m *SQLMirror) Push(ctx context.Context, entry *ArchivedLead) error {
	if !m.Enabled() {
		return nil
	}
	if err := m.connect(ctx); err != nil {
		return err
	}

	query := `INSERT INTO report_leads
		(phone, name, store, lead_type, booking_no, closing_status, archived_at)
		VALUES (` + m.placeholders(7) + `)`

	_, err := m.db.ExecContext(ctx, query,
		entry.Phone,
		entry.Name,
		entry.Store,
		string(entry.Lead.LeadType),
		entry.Lead.BookingNo,
		entry.Lead.ClosingStatus,
		entry.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to mirror archived lead: %w", err)
	}
	return nil
}

func (m *SQLMirror) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

// placeholders renders the dialect's parameter markers: $1..$n for postgres,
// ? for mysql.
func (m *SQLMirror) placeholders(n int) string {
	out := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			out += ", "
		}
		if m.driver == "postgres" {
			out += fmt.Sprintf("$%d", i)
		} else {
			out += "?"
		}
	}
	return out
}
