package stylize

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"stylerd/internal/registry"
	"stylerd/internal/style"
	"stylerd/pkg/types"
)

// Metadata constants published on /model/metadata.
const (
	ModelName        = "MAX Fast Neural Style Transfer"
	ModelID          = "max-fast-neural-style-transfer"
	ModelDescription = "Pytorch Neural Style Transfer model trained on COCO 2014"
	ModelType        = "Image-To-Image Translation"
	ModelLicense     = "BSD-3-Clause"
	ModelSource      = "https://developer.ibm.com/exchanges/models/all/max-fast-neural-style-transfer/"
	// NominalInputSize is the training resolution. Inputs are not resized to it.
	NominalInputSize = 256
)

// Service runs the stylize pipeline against an immutable registry.
type Service struct {
	reg           *registry.Registry
	defaultModel  style.Variant
	maxConcurrent int
	maxWait       time.Duration
	maxImageDim   int
	maxPixels     int // 0 means unlimited
	jpegQuality   int
	pub           EventPublisher
	log           zerolog.Logger

	// nil when MaxConcurrent is 0
	slots chan struct{}

	inflight atomic.Int64
	requests atomic.Uint64
	failures atomic.Uint64
	rejected atomic.Uint64
	// built once in NewWithConfig, read-only afterwards
	counters  map[style.Variant]*modelCounters
	startTime time.Time
}

type modelCounters struct {
	requests atomic.Uint64
	failures atomic.Uint64
	lastUsed atomic.Int64
}

// Ready reports whether every variant is loaded.
func (s *Service) Ready() bool {
	return s.reg != nil && s.reg.Len() == len(style.All())
}

// DefaultModel returns the variant used when a request names none.
func (s *Service) DefaultModel() style.Variant { return s.defaultModel }

// ListModels returns the loaded models, flagging the service default.
func (s *Service) ListModels() []types.Model {
	if s.reg == nil {
		return []types.Model{}
	}
	out := s.reg.Models()
	for i := range out {
		out[i].Default = out[i].ID == s.defaultModel.String()
	}
	return out
}

// Metadata describes the served model family.
func (s *Service) Metadata() types.Metadata {
	return types.Metadata{
		ID:           ModelID,
		Name:         ModelName,
		Description:  ModelDescription,
		Type:         ModelType,
		License:      ModelLicense,
		Source:       ModelSource,
		InputSize:    [2]int{NominalInputSize, NominalInputSize},
		Models:       style.Names(),
		DefaultModel: s.defaultModel.String(),
	}
}
