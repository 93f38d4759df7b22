package feesync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/billforge/billforge/internal/config"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/fee/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupSyncer(t *testing.T, baseURL string) (*Syncer, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&feedomain.Fee{}, &feedomain.FeeTier{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	syncer := New(Params{
		Config: config.Config{AccountingBaseURL: baseURL},
		DB:     db,
		Log:    zap.NewNop(),
		Repo:   repository.New(),
	})
	return syncer, db, node
}

func insertFee(t *testing.T, db *gorm.DB, node *snowflake.Node) feedomain.Fee {
	t.Helper()

	now := time.Now().UTC()
	fee := feedomain.Fee{
		ID:           node.Generate(),
		Enabled:      true,
		ClientID:     node.Generate(),
		ProductID:    "payments",
		Type:         "PLATFORM_ACCESS",
		Category:     feedomain.CategoryCore,
		StartDate:    feedomain.NewDate(2025, time.January, 1),
		Frequency:    feedomain.FrequencyMonthly,
		FeeStructure: feedomain.StructureFlat,
		Currency:     "USD",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&fee).Error)
	return fee
}

func TestSyncDisabledWithoutBaseURL(t *testing.T) {
	syncer, _, _ := setupSyncer(t, "")

	assert.False(t, syncer.Enabled())

	_, err := syncer.Sync(context.Background())
	assert.ErrorIs(t, err, ErrSyncDisabled)
}

func TestSyncPushesUnsyncedFees(t *testing.T) {
	var pushes atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fees", r.URL.Path)
		pushes.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	syncer, db, node := setupSyncer(t, server.URL)
	fee := insertFee(t, db, node)

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, int64(1), pushes.Load())

	var reloaded feedomain.Fee
	require.NoError(t, db.First(&reloaded, "id = ?", fee.ID).Error)
	require.NotNil(t, reloaded.SyncedAt)

	// A second pass has nothing left to push.
	result, err = syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, int64(1), pushes.Load())
}

func TestSyncLeavesFailedFeesUnsynced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	syncer, db, node := setupSyncer(t, server.URL)
	fee := insertFee(t, db, node)

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
	assert.Equal(t, 1, result.Failed)

	var reloaded feedomain.Fee
	require.NoError(t, db.First(&reloaded, "id = ?", fee.ID).Error)
	assert.Nil(t, reloaded.SyncedAt)
}
