package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/killallgit/rgain-analyzer/internal/models"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name   string
		dbPath string
	}{
		{name: "in-memory database", dbPath: ":memory:"},
		{name: "file database", dbPath: filepath.Join(t.TempDir(), "rgain.db")},
		{name: "file database in a new directory", dbPath: filepath.Join(t.TempDir(), "data", "nested", "rgain.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := Initialize(tt.dbPath, false)
			require.NoError(t, err)
			require.NotNil(t, conn)
			defer conn.Close()

			assert.NotNil(t, conn.DB)
			assert.NoError(t, conn.HealthCheck())
		})
	}
}

func TestDB_HealthCheck(t *testing.T) {
	tests := []struct {
		name      string
		setupConn func(t *testing.T) *DB
		wantErr   bool
	}{
		{
			name: "healthy connection",
			setupConn: func(t *testing.T) *DB {
				conn, err := Initialize(":memory:", false)
				require.NoError(t, err)
				t.Cleanup(func() { conn.Close() })
				return conn
			},
		},
		{
			name: "closed connection",
			setupConn: func(t *testing.T) *DB {
				conn, err := Initialize(":memory:", false)
				require.NoError(t, err)
				require.NoError(t, conn.Close())
				return conn
			},
			wantErr: true,
		},
		{
			name: "nil connection",
			setupConn: func(t *testing.T) *DB {
				return nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setupConn(t).HealthCheck()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDB_MigrateAndStatus(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	before, err := conn.Status()
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "analyses", before[0].Table)
	assert.Equal(t, "AnalysisRecord", before[0].Model)
	assert.False(t, before[0].Present)

	require.NoError(t, conn.Migrate())
	// Migrate is idempotent
	require.NoError(t, conn.Migrate())

	after, err := conn.Status()
	require.NoError(t, err)
	assert.True(t, after[0].Present)
}

func TestDB_AnalysisRecordRoundTrip(t *testing.T) {
	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.Migrate())

	gain := 5.02
	record := models.AnalysisRecord{
		UUID:       "a1b2c3",
		FilePath:   "/music/44100Hz-16bit-stereo.mp3",
		Profile:    "rgain",
		Executable: "replaygain",
		Status:     models.AnalysisStatusSucceeded,
		ReplayGain: &gain,
		Metadata:   models.MetadataJSON{"title": "Signal", "replay_gain": gain},
		DurationMS: 1200,
	}
	require.NoError(t, conn.Create(&record).Error)
	assert.NotZero(t, record.ID)

	var loaded models.AnalysisRecord
	require.NoError(t, conn.First(&loaded, "uuid = ?", "a1b2c3").Error)
	require.NotNil(t, loaded.ReplayGain)
	assert.InDelta(t, 5.02, *loaded.ReplayGain, 1e-9)
	assert.Nil(t, loaded.ExitCode)
	assert.Equal(t, "Signal", loaded.Metadata["title"])

	// UUIDs are unique
	dup := models.AnalysisRecord{UUID: "a1b2c3", FilePath: "/x.mp3", Status: models.AnalysisStatusToolFailed}
	assert.Error(t, conn.Create(&dup).Error)
}

func TestDB_AutoMigrate(t *testing.T) {
	type TestModel struct {
		gorm.Model
		Name string
	}

	conn, err := Initialize(":memory:", false)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.AutoMigrate(&TestModel{}))
	assert.True(t, conn.Migrator().HasTable(&TestModel{}))

	assert.NoError(t, conn.AutoMigrate())
}
