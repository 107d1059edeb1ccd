package infra

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantSQL    string
		wantErr    bool
	}{
		{
			name:       "valid marker",
			query:      "--sql 0b0f3a6e-4a55-4d1f-9a56-1c8f1f6e2b10\nselect 1;",
			wantMarker: "0b0f3a6e-4a55-4d1f-9a56-1c8f1f6e2b10",
			wantSQL:    "select 1;",
		},
		{
			name:       "leading whitespace",
			query:      "\n  --sql 0b0f3a6e-4a55-4d1f-9a56-1c8f1f6e2b10\nselect 1;\n",
			wantMarker: "0b0f3a6e-4a55-4d1f-9a56-1c8f1f6e2b10",
			wantSQL:    "select 1;",
		},
		{
			name:    "missing marker",
			query:   "select 1;",
			wantErr: true,
		},
		{
			name:    "uppercase uuid rejected",
			query:   "--sql 0B0F3A6E-4A55-4D1F-9A56-1C8F1F6E2B10\nselect 1;",
			wantErr: true,
		},
		{
			name:    "empty",
			query:   "   ",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, sql, err := extractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got marker %q", marker)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if marker != tc.wantMarker {
				t.Fatalf("marker = %q, want %q", marker, tc.wantMarker)
			}
			if sql != tc.wantSQL {
				t.Fatalf("sql = %q, want %q", sql, tc.wantSQL)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsNoRows(fmt.Errorf("load: %w", pgx.ErrNoRows)) {
		t.Fatalf("wrapped ErrNoRows should be detected")
	}
	if IsNoRows(errors.New("boom")) {
		t.Fatalf("unrelated error reported as no rows")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})) {
		t.Fatalf("unique violation not detected")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation reported as unique")
	}
}
