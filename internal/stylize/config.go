package stylize

import (
	"time"

	"github.com/rs/zerolog"

	"stylerd/internal/imaging"
	"stylerd/internal/registry"
	"stylerd/internal/style"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxWait     = 30 * time.Second
	defaultJPEGQuality = 75
)

// Config holds every tunable of a Service.
type Config struct {
	// Registry holds the loaded networks. A nil registry yields a service
	// that is not ready and answers with ErrDependencyUnavailable.
	Registry *registry.Registry
	// DefaultModel is used when a request names no model. Zero means style.Default.
	DefaultModel style.Variant
	// MaxConcurrent bounds concurrent forward passes; 0 means unlimited.
	MaxConcurrent int
	// MaxWait is how long a request may wait for a slot before it is rejected.
	MaxWait time.Duration
	// MaxImageDimension shrinks larger inputs to fit; 0 keeps native size.
	MaxImageDimension int
	// MaxImagePixels rejects inputs whose header declares more pixels.
	// Zero means imaging.DefaultMaxPixels; negative disables the limit.
	MaxImagePixels int
	JPEGQuality    int
	Publisher      EventPublisher
	Logger         zerolog.Logger
}

// NewWithConfig constructs a Service from cfg, applying defaults.
func NewWithConfig(cfg Config) *Service {
	s := &Service{
		reg:           cfg.Registry,
		defaultModel:  cfg.DefaultModel,
		maxConcurrent: cfg.MaxConcurrent,
		maxWait:       cfg.MaxWait,
		maxImageDim:   cfg.MaxImageDimension,
		maxPixels:     cfg.MaxImagePixels,
		jpegQuality:   cfg.JPEGQuality,
		pub:           cfg.Publisher,
		log:           cfg.Logger,
		counters:      make(map[style.Variant]*modelCounters),
		startTime:     time.Now(),
	}
	if !s.defaultModel.Valid() {
		s.defaultModel = style.Default
	}
	if s.maxConcurrent < 0 {
		s.maxConcurrent = 0
	}
	if s.maxConcurrent > 0 {
		s.slots = make(chan struct{}, s.maxConcurrent)
	}
	if s.maxWait <= 0 {
		s.maxWait = defaultMaxWait
	}
	if s.maxImageDim < 0 {
		s.maxImageDim = 0
	}
	switch {
	case s.maxPixels == 0:
		s.maxPixels = imaging.DefaultMaxPixels
	case s.maxPixels < 0:
		s.maxPixels = 0
	}
	if s.jpegQuality <= 0 {
		s.jpegQuality = defaultJPEGQuality
	}
	if s.pub == nil {
		s.pub = noopPublisher{}
	}
	for _, v := range style.All() {
		s.counters[v] = &modelCounters{}
	}
	s.log.Debug().
		Str("default_model", s.defaultModel.String()).
		Int("max_concurrent", s.maxConcurrent).
		Dur("max_wait", s.maxWait).
		Int("max_image_dimension", s.maxImageDim).
		Int("max_image_pixels", s.maxPixels).
		Int("jpeg_quality", s.jpegQuality).
		Bool("ready", s.Ready()).
		Msg("stylize service configured")
	return s
}
