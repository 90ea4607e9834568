package stylize

import (
	"time"

	"stylerd/pkg/types"
)

// Service states reported by Status.
const (
	StateReady       = "ready"
	StateUnavailable = "unavailable"
)

// Status builds the /status payload.
func (s *Service) Status() types.StatusResponse {
	now := time.Now()
	state := StateUnavailable
	if s.Ready() {
		state = StateReady
	}
	resp := types.StatusResponse{
		State:          state,
		DefaultModel:   s.defaultModel.String(),
		Inflight:       int(s.inflight.Load()),
		MaxConcurrent:  s.maxConcurrent,
		RequestsTotal:  s.requests.Load(),
		FailuresTotal:  s.failures.Load(),
		RejectedTotal:  s.rejected.Load(),
		UptimeSeconds:  int64(now.Sub(s.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
		Models:         []types.ModelStatus{},
	}
	if s.reg == nil {
		return resp
	}
	for _, v := range s.reg.Variants() {
		c := s.counters[v]
		resp.Models = append(resp.Models, types.ModelStatus{
			ModelID:  v.String(),
			Requests: c.requests.Load(),
			Failures: c.failures.Load(),
			LastUsed: c.lastUsed.Load(),
		})
	}
	return resp
}
