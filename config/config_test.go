package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	tempDir     string
	origHomeDir string
}

func (s *ConfigSuite) SetupTest() {
	var err error
	s.tempDir, err = os.MkdirTemp("", "liturgi-config-*")
	s.Require().NoError(err)

	s.origHomeDir = os.Getenv("HOME")
	os.Setenv("HOME", s.tempDir)
	for _, k := range []string{"OPENAI_API_KEY", "GROQ_API_KEY", "LITURGI_CSV_PATH", "LITURGI_HISTORY_DSN"} {
		s.T().Setenv(k, "")
	}
}

func (s *ConfigSuite) TearDownTest() {
	os.Setenv("HOME", s.origHomeDir)
	os.RemoveAll(s.tempDir)
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefault() {
	cfg := Default()

	s.Equal(SourceCSV, cfg.Source.Kind)
	s.Equal(DefaultTable, cfg.Source.Warehouse.Table)
	s.Equal(HistoryMemory, cfg.History.Backend)
	s.Equal(80000, cfg.Prompt.MaxChars)
	s.Equal(65000, cfg.History.MaxStoredChars)
	s.Equal(100, cfg.Prompt.RowLimit)
	s.Equal("placeholder", cfg.AI.Provider)
	s.Equal("gpt-5.1", cfg.AI.OpenAI.Model)
}

func (s *ConfigSuite) TestLoadMissingFileReturnsDefaults() {
	cfg, err := Load("")
	s.Require().NoError(err)
	s.Equal(Default().Source, cfg.Source)
}

func (s *ConfigSuite) TestLoadYAMLAndEnvOverride() {
	path := filepath.Join(s.tempDir, "custom.yaml")
	yml := `
source:
  kind: warehouse
  warehouse:
    host: wh.example.org
    port: 6543
    table: liturgi_curated
history:
  backend: sqlite
  path: /tmp/h.db
prompt:
  max_chars: 1000
ai:
  provider: openai
`
	s.Require().NoError(os.WriteFile(path, []byte(yml), 0600))
	s.T().Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(path)
	s.Require().NoError(err)
	s.Equal(SourceWarehouse, cfg.Source.Kind)
	s.Equal("wh.example.org", cfg.Source.Warehouse.Host)
	s.Equal(6543, cfg.Source.Warehouse.Port)
	s.Equal("liturgi_curated", cfg.Source.Warehouse.Table)
	s.Equal("disable", cfg.Source.Warehouse.SSLMode, "unset fields keep defaults")
	s.Equal(HistorySQLite, cfg.History.Backend)
	s.Equal(1000, cfg.Prompt.MaxChars)
	s.Equal(65000, cfg.History.MaxStoredChars)
	s.Equal("sk-env", cfg.AI.OpenAI.APIKey)
}

func (s *ConfigSuite) TestLoadRejectsUnknownKinds() {
	path := filepath.Join(s.tempDir, "bad.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("source:\n  kind: ftp\n"), 0600))

	_, err := Load(path)
	s.Error(err)
	s.Contains(err.Error(), "ftp")
}

func (s *ConfigSuite) TestSaveRoundTrip() {
	cfg := Default()
	cfg.Source.CSVPath = "/srv/liturgi.csv"
	s.Require().NoError(Save(cfg, ""))

	path, err := DefaultPath()
	s.Require().NoError(err)
	s.FileExists(path)

	loaded, err := Load(path)
	s.Require().NoError(err)
	s.Equal("/srv/liturgi.csv", loaded.Source.CSVPath)
}

func (s *ConfigSuite) TestDSN() {
	w := WarehouseConfig{Host: "h", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "require"}
	s.Equal("host=h port=5433 user=u password=p dbname=d sslmode=require", w.DSN())
}
