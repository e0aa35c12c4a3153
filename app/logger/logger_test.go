package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		env     string
		verbose bool
		debug   bool
		info    bool
	}{
		{env: "dev", info: true},
		{env: "dev", verbose: true, debug: true, info: true},
		{env: "prod", info: true},
		{env: "prod", verbose: true, debug: true, info: true},
		{env: "test"},
	}

	for _, tt := range tests {
		l, err := New(tt.env, tt.verbose)
		require.NoError(t, err)
		assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel), tt.env)
		assert.Equal(t, tt.info, l.Core().Enabled(zapcore.InfoLevel), tt.env)
	}
}
