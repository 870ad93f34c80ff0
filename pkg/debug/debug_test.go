package debug_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/tagsense/pkg/debug"
)

func TestGetPackageAndFuncFromFuncName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPkg  string
		wantFunc string
	}{
		{
			name:     "plain function",
			input:    "github.com/walteh/tagsense/pkg/scanner.Scan",
			wantPkg:  "github.com/walteh/tagsense/pkg/scanner",
			wantFunc: "Scan",
		},
		{
			name:     "pointer method",
			input:    "github.com/walteh/tagsense/pkg/session.(*Store).Update",
			wantPkg:  "github.com/walteh/tagsense/pkg/session",
			wantFunc: "(*Store).Update",
		},
		{
			name:     "no package",
			input:    "main",
			wantPkg:  "main",
			wantFunc: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, fn := debug.GetPackageAndFuncFromFuncName(tt.input)
			assert.Equal(t, tt.wantPkg, pkg)
			assert.Equal(t, tt.wantFunc, fn)
		})
	}
}

func TestFormatCaller(t *testing.T) {
	assert.Equal(t, "pkg/x:file.go:12", debug.FormatCaller("pkg/x", "/a/b/file.go", 12, false))
	assert.Equal(t, "file.go", debug.FileNameOfPath("file.go"))
}

func TestTimeHook(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	logger := zerolog.New(&buf).Hook(debug.TimeHook{Now: func() time.Time { return fixed }})
	logger.Info().Msg("hello")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "2024-05-06T07:08:09.0000Z", event["time"])
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	ctx := debug.WithLogger(context.Background(), debug.Options{
		Out:    &buf,
		Level:  zerolog.DebugLevel,
		JSON:   true,
		Caller: true,
	})

	zerolog.Ctx(ctx).Debug().Str("k", "v").Msg("scanned")
	zerolog.Ctx(ctx).Trace().Msg("dropped")

	var event map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, "scanned", event["message"])
	assert.Equal(t, "v", event["k"])
	assert.Contains(t, event, "time")
	assert.Contains(t, event, "caller")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer

	logger := debug.NewLogger(debug.Options{Out: &buf, Level: zerolog.InfoLevel})
	logger.Info().Msg("ready")
	logger.Debug().Msg("hidden")

	assert.Contains(t, buf.String(), "ready")
	assert.NotContains(t, buf.String(), "hidden")
}
