package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantJSON  bool
		wantDebug bool
	}{
		{name: "local", env: EnvLocal, wantDebug: true},
		{name: "test", env: EnvTest, wantDebug: true},
		{name: "prod", env: EnvProd, wantJSON: true},
		{name: "unknown falls back to prod", env: "staging", wantJSON: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := Setup(tt.env, &buf)

			log.Debug("debug line")
			log.Info("info line", "identifier", "bob")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug line"))
			require.Contains(t, out, "info line")

			lines := strings.Split(strings.TrimSpace(out), "\n")
			var v map[string]any
			err := json.Unmarshal([]byte(lines[len(lines)-1]), &v)
			if tt.wantJSON {
				require.NoError(t, err)
				assert.Equal(t, "bob", v["identifier"])
			} else {
				assert.Error(t, err)
			}
		})
	}
}
