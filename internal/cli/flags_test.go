package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stylerd/internal/config"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, splitCSV(c.in), c.in)
	}
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("t", pflag.ContinueOnError)
	addCommonFlags(fs)
	addServeFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--addr", ":9000",
		"--max-wait", "5s",
		"--max-concurrent", "3",
		"--infer-timeout", "20",
		"--cors-origins", "https://a.example, https://b.example",
	}))

	cfg := config.Config{ModelsDir: "from-file", Addr: ":1"}
	applyFlags(fs, &cfg)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "from-file", cfg.ModelsDir)
	assert.Equal(t, 5*time.Second, cfg.MaxWaitDuration())
	assert.Equal(t, 3, cfg.MaxConcurrent)
	assert.Equal(t, int64(20), cfg.InferTimeoutSeconds)
	assert.True(t, cfg.CORS.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}
