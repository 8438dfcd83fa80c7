package job

import (
	"context"

	"github.com/SujJR/fundchat/internal/service"
)

// How many stale funds one run will touch. Each refresh costs an
// embedding call plus an LLM completion.
const refreshBatchSize = 20

type SummaryRefreshJob struct {
	funds *service.FundService
}

func NewSummaryRefreshJob(funds *service.FundService) *SummaryRefreshJob {
	return &SummaryRefreshJob{funds: funds}
}

func (j *SummaryRefreshJob) Name() string {
	return "summary_refresh"
}

func (j *SummaryRefreshJob) Run(ctx context.Context) error {
	if j.funds == nil {
		return nil
	}
	_, err := j.funds.RefreshStaleSummaries(ctx, refreshBatchSize)
	return err
}
