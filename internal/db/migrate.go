package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io"
	"sync"

	"github.com/pressly/goose/v3"

	// pgx stdlib driver for goose's database/sql connection
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var gooseMu sync.Mutex

// Direction selects which goose command Migrate runs.
type Direction string

const (
	Up     Direction = "up"
	Down   Direction = "down"
	Status Direction = "status"
)

// Migrate opens a short-lived database/sql handle and applies the embedded
// migrations. Output from goose (status tables) goes to out when set.
func Migrate(ctx context.Context, dsn string, dir Direction, out io.Writer) error {
	sqlDB, err := sql.Open("pgx", dsn)

	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}

	defer sqlDB.Close()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if out != nil {
		goose.SetLogger(writerLogger{out})
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch dir {
	case Up:
		err = goose.UpContext(ctx, sqlDB, "migrations")
	case Down:
		err = goose.DownContext(ctx, sqlDB, "migrations")
	case Status:
		err = goose.StatusContext(ctx, sqlDB, "migrations")
	default:
		return fmt.Errorf("unknown migration direction %q", dir)
	}

	if err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}

	return nil
}

type writerLogger struct{ w io.Writer }

func (l writerLogger) Printf(format string, v ...any) { fmt.Fprintf(l.w, format+"\n", v...) }

func (l writerLogger) Fatalf(format string, v ...any) { fmt.Fprintf(l.w, format+"\n", v...) }
