package identity

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/anamartens/bigday/internal/db"
	"github.com/anamartens/bigday/internal/models"
	"github.com/anamartens/bigday/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenPath(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return conn
}

func TestAuthorize(t *testing.T) {
	conn := newTestDB(t)
	weddings := repository.NewWeddingRepo(conn)

	date := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)
	mine, err := weddings.Create("Ana & Robin", date, nil, nil, "ana")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}
	other, err := weddings.Create("Sam & Alex", date, nil, nil, "sam")
	if err != nil {
		t.Fatalf("create wedding: %v", err)
	}

	guard := NewGuard(weddings, Static("ana"))

	if err := guard.Authorize(mine.ID); err != nil {
		t.Errorf("Authorize(own wedding) = %v, want nil", err)
	}

	var authErr *models.AuthorizationError
	if err := guard.Authorize(other.ID); !errors.As(err, &authErr) {
		t.Errorf("Authorize(foreign wedding) = %v, want AuthorizationError", err)
	}

	var nfErr *models.NotFoundError
	if err := guard.Authorize(9999); !errors.As(err, &nfErr) {
		t.Errorf("Authorize(missing wedding) = %v, want NotFoundError", err)
	}
}
