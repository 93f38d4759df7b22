// Package feesync pushes fee configuration to the external accounting
// system so both sides price from the same catalog.
package feesync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/config"
	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/billforge/billforge/internal/observability/metrics"
	"github.com/billforge/billforge/internal/ratelimit"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	syncBatchSize = 100
	syncLockKey   = "feesync:lock"
	syncLockTTL   = 2 * time.Minute
)

var (
	ErrSyncDisabled   = errors.New("sync_disabled")
	ErrSyncInProgress = errors.New("sync_in_progress")
)

// Result summarizes one reconciliation pass.
type Result struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

type Params struct {
	fx.In

	Config  config.Config
	DB      *gorm.DB
	Log     *zap.Logger
	Repo    feedomain.Repository
	Locker  *ratelimit.Locker `optional:"true"`
	Metrics *metrics.Metrics  `optional:"true"`
}

type Syncer struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    feedomain.Repository
	locker  *ratelimit.Locker
	metrics *metrics.Metrics

	baseURL string
	client  *http.Client
}

func New(p Params) *Syncer {
	timeout := p.Config.AccountingTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Syncer{
		db:      p.DB,
		log:     p.Log.Named("feesync"),
		repo:    p.Repo,
		locker:  p.Locker,
		metrics: p.Metrics,
		baseURL: strings.TrimRight(strings.TrimSpace(p.Config.AccountingBaseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Syncer) Enabled() bool {
	return s.baseURL != ""
}

// Sync pushes every fee changed since its last sync to the accounting
// system and stamps the watermark on success. Concurrent passes are
// serialized through the distributed lock when redis is configured; a pass
// already in flight is reported, not queued.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	if !s.Enabled() {
		return nil, ErrSyncDisabled
	}

	if s.locker != nil {
		token, ok, err := s.locker.TryLock(ctx, syncLockKey, syncLockTTL)
		if err != nil {
			s.log.Warn("sync lock unavailable, proceeding unlocked", zap.Error(err))
		} else if !ok {
			return nil, ErrSyncInProgress
		} else {
			defer func() {
				if err := s.locker.Release(context.WithoutCancel(ctx), syncLockKey, token); err != nil {
					s.log.Warn("sync lock release failed", zap.Error(err))
				}
			}()
		}
	}

	result := &Result{}
	for {
		fees, err := s.repo.ListUnsynced(ctx, s.db, syncBatchSize)
		if err != nil {
			return result, err
		}
		if len(fees) == 0 {
			break
		}

		synced := make([]snowflake.ID, 0, len(fees))
		for _, fee := range fees {
			if err := s.push(ctx, fee); err != nil {
				result.Failed++
				s.metrics.RecordFeeSync(ctx, "failed")
				s.log.Warn("fee sync failed",
					zap.String("fee_id", fee.ID.String()),
					zap.Error(err),
				)
				continue
			}
			result.Synced++
			s.metrics.RecordFeeSync(ctx, "synced")
			synced = append(synced, fee.ID)
		}

		if len(synced) > 0 {
			if err := s.repo.MarkSynced(ctx, s.db, synced, time.Now().UTC()); err != nil {
				return result, err
			}
		}
		if result.Failed > 0 {
			// Failed fees stay unsynced and would loop forever in this pass.
			break
		}
		if len(fees) < syncBatchSize {
			break
		}
	}

	s.log.Info("fee sync pass complete",
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Syncer) push(ctx context.Context, fee feedomain.Fee) error {
	payload, err := json.Marshal(fee)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/fees", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("accounting system returned %d", resp.StatusCode)
	}
	return nil
}
