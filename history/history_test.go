package history

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DachengChen/liturgiAI/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

func sample(instruction string) Entry {
	return Entry{
		SourceTable: "pdf_liturgi_ai_analysis",
		RowLimit:    IntPtr(100),
		Instruction: instruction,
		PromptSent:  "prompt for " + instruction,
		Answer:      "answer for " + instruction,
		Model:       "gpt-5.1",
	}
}

func TestMemoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	first, err := m.Append(ctx, sample("satu"))
	require.NoError(t, err)
	second, err := m.Append(ctx, sample("dua"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, fixed, second.AskedAt)

	got, err := m.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "dua", got[0].Instruction)
	assert.Equal(t, "satu", got[1].Instruction)

	got, err = m.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "dua", got[0].Instruction)
}

func TestMemoryRecentIsACopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, _ = m.Append(ctx, sample("satu"))

	got, _ := m.Recent(ctx, 0)
	got[0].Answer = "changed"

	again, _ := m.Recent(ctx, 0)
	assert.Equal(t, "answer for satu", again[0].Answer)
}

func TestMemoryEmpty(t *testing.T) {
	got, err := NewMemory().Recent(context.Background(), 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTrimRunes(t *testing.T) {
	assert.Equal(t, "abc", trimRunes("abc", 5))
	assert.Equal(t, "ab", trimRunes("abc", 2))
	assert.Equal(t, "éé", trimRunes("ééé", 2))
	assert.Equal(t, "abc", trimRunes("abc", 0))
}

func TestOpenBackends(t *testing.T) {
	s, err := Open(config.HistoryConfig{Backend: config.HistoryMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = Open(config.HistoryConfig{Backend: config.HistoryPostgres})
	assert.Error(t, err)

	_, err = Open(config.HistoryConfig{Backend: "redis"})
	assert.Error(t, err)
}

type SQLiteSuite struct {
	suite.Suite
	path  string
	store *SQL
}

func (s *SQLiteSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "history.db")
	store, err := OpenSQLite(s.path, 0)
	s.Require().NoError(err)
	s.store = store
}

func (s *SQLiteSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *SQLiteSuite) TestAppendAssignsIDAndTime() {
	e, err := s.store.Append(context.Background(), sample("satu"))
	s.Require().NoError(err)
	s.Equal(int64(1), e.ID)
	s.False(e.AskedAt.IsZero())
	s.Require().NotNil(e.RowLimit)
	s.Equal(100, *e.RowLimit)
	s.Equal("gpt-5.1", e.Model)
}

func (s *SQLiteSuite) TestNilRowLimit() {
	in := sample("tanpa batas")
	in.RowLimit = nil
	e, err := s.store.Append(context.Background(), in)
	s.Require().NoError(err)
	s.Nil(e.RowLimit)
}

func (s *SQLiteSuite) TestRecentNewestFirst() {
	ctx := context.Background()
	for _, q := range []string{"satu", "dua", "tiga"} {
		_, err := s.store.Append(ctx, sample(q))
		s.Require().NoError(err)
	}

	got, err := s.store.Recent(ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("tiga", got[0].Instruction)
	s.Equal("dua", got[1].Instruction)

	all, err := s.store.Recent(ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *SQLiteSuite) TestLongTextIsTrimmed() {
	in := sample("panjang")
	in.PromptSent = strings.Repeat("x", config.DefaultMaxStoredChars+500)
	in.Answer = strings.Repeat("é", config.DefaultMaxStoredChars+1)

	e, err := s.store.Append(context.Background(), in)
	s.Require().NoError(err)
	s.Len(e.PromptSent, config.DefaultMaxStoredChars)
	s.Equal(config.DefaultMaxStoredChars, len([]rune(e.Answer)))
}

func (s *SQLiteSuite) TestPersistsAcrossReopen() {
	_, err := s.store.Append(context.Background(), sample("tetap"))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Close())

	reopened, err := OpenSQLite(s.path, 0)
	s.Require().NoError(err)
	s.store = reopened

	got, err := reopened.Recent(context.Background(), 0)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("tetap", got[0].Instruction)
}

func (s *SQLiteSuite) TestAppendAfterCloseFails() {
	s.Require().NoError(s.store.Close())
	_, err := s.store.Append(context.Background(), sample("x"))
	s.ErrorIs(err, ErrWrite)
	s.store = nil
}

func (s *SQLiteSuite) TestAppendSurvivesFailedReload() {
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return fixed }
	err := s.store.db.Callback().Query().Before("gorm:query").Register("test:fail_query", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("connection reset"))
	})
	s.Require().NoError(err)

	e, err := s.store.Append(context.Background(), sample("tersimpan"))
	s.Require().NoError(err)
	s.Equal(int64(1), e.ID)
	s.Equal(fixed, e.AskedAt)
	s.Equal("tersimpan", e.Instruction)

	s.Require().NoError(s.store.db.Callback().Query().Remove("test:fail_query"))
	got, err := s.store.Recent(context.Background(), 0)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("tersimpan", got[0].Instruction)
}

func TestSQLiteSuite(t *testing.T) {
	suite.Run(t, new(SQLiteSuite))
}
