package database

import "testing"

func TestDriverName(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://user:pw@localhost:5432/medloc?sslmode=disable", "pgx"},
		{"PostgreSQL://db/medloc", "pgx"},
		{"file:medloc.db?cache=shared", "sqlite"},
		{":memory:", "sqlite"},
		{"backend/app.db", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			if got := DriverName(tt.dsn); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestConnectSQLiteMemory(t *testing.T) {
	db, err := Connect(":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()

	var one int
	if err := db.Get(&one, `SELECT 1`); err != nil || one != 1 {
		t.Fatalf("expected 1, got %d (%v)", one, err)
	}
}
