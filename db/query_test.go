package db

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/DachengChen/liturgiAI/config"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectAllSQL(t *testing.T) {
	tests := []struct {
		name  string
		table string
		limit int
		want  string
	}{
		{"plain", "pdf_liturgi_ai_analysis", 0, `SELECT * FROM "pdf_liturgi_ai_analysis"`},
		{"qualified with limit", "liturgi.pdf_liturgi_ai_analysis", 100, `SELECT * FROM "liturgi"."pdf_liturgi_ai_analysis" LIMIT 100`},
		{"quotes escaped", `bad"name`, 10, `SELECT * FROM "bad""name" LIMIT 10`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectAllSQL(tt.table, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectAllSQLRejectsEmptyParts(t *testing.T) {
	for _, table := range []string{"", "  ", "liturgi.", ".x"} {
		_, err := SelectAllSQL(table, 0)
		assert.Error(t, err, "table %q", table)
	}
}

func TestFormatValue(t *testing.T) {
	day := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	stamp := time.Date(2024, 1, 7, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "Mazmur 23", FormatValue("Mazmur 23"))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "2024-01-07", FormatValue(day))
	assert.Equal(t, "2024-01-07T10:30:00Z", FormatValue(stamp))
	assert.Equal(t, "42", FormatValue(int64(42)))

	assert.Equal(t, "123.45", FormatValue(pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}))
	assert.Equal(t, "", FormatValue(pgtype.Numeric{}))
	id := uuid.MustParse("12340000-0000-4000-8000-000000000001")
	assert.Equal(t, "12340000-0000-4000-8000-000000000001", FormatValue([16]byte(id)))
}

func TestFormatRowCount(t *testing.T) {
	assert.Equal(t, "999", FormatRowCount(999))
	assert.Equal(t, "1k", FormatRowCount(1000))
	assert.Equal(t, "999k", FormatRowCount(999499))
	assert.Equal(t, "1M", FormatRowCount(999500))
}

func TestFormatTimeAgo(t *testing.T) {
	assert.Equal(t, "-", FormatTimeAgo(nil))
	ts := time.Now().Add(-3 * time.Hour)
	assert.Equal(t, "3h", FormatTimeAgo(&ts))
	ts = time.Now().Add(-50 * time.Hour)
	assert.Equal(t, "2d", FormatTimeAgo(&ts))
}

func TestConnectUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	d, err := Connect(ctx, config.WarehouseConfig{
		Host:     "127.0.0.1",
		Port:     1,
		User:     "liturgi",
		Database: "liturgi",
		SSLMode:  "disable",
	})
	require.Error(t, err)
	assert.Nil(t, d)
	assert.Contains(t, err.Error(), "warehouse unreachable")
}
