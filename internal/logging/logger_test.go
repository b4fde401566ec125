package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		level     string
		wantInfo  bool
		wantDebug bool
	}{
		{name: "default is info", wantInfo: true},
		{name: "warn from env", level: "WARN"},
		{name: "debug flag wins", debug: true, level: "error", wantInfo: true, wantDebug: true},
		{name: "unknown keeps default", level: "loud", wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := newLogger(&buf, tt.debug, tt.level)

			log.Info("compiled", "files", 2)
			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("compiled")))

			buf.Reset()
			log.Debug("fragment", "contract", "Foo")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("fragment")))
			assert.NotContains(t, buf.String(), "time=")
		})
	}
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/compile.go", shortPath("/home/me/src/artigen/internal/usecase/compile.go"))
	assert.Equal(t, "main.go", shortPath("/elsewhere/main.go"))
}
