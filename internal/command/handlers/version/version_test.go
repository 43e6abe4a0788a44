package version

import (
	"bytes"
	"context"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Kargones/testshard/internal/command"
	"github.com/Kargones/testshard/internal/config"
	"github.com/Kargones/testshard/internal/constants"
	"github.com/Kargones/testshard/internal/pkg/output"
)

func execute(t *testing.T, format string) string {
	t.Helper()
	var buf bytes.Buffer
	env := &command.Env{
		Config:  &config.Config{OutputFormat: format},
		Stdout:  &buf,
		TraceID: "0123456789abcdef0123456789abcdef",
	}
	require.NoError(t, (&Handler{}).Execute(context.Background(), env))
	return buf.String()
}

func TestHandler_UsesEnvWriter(t *testing.T) {
	var buf bytes.Buffer
	env := &command.Env{
		Config: &config.Config{OutputFormat: "text"},
		Stdout: &buf,
		Output: output.NewYAMLWriter(),
	}
	require.NoError(t, (&Handler{}).Execute(context.Background(), env))

	var result struct {
		Command string `yaml:"command"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result), buf.String())
	assert.Equal(t, constants.ActVersion, result.Command)
}

func TestHandler_Registered(t *testing.T) {
	h, ok := command.Get(constants.ActVersion)
	require.True(t, ok)
	assert.IsType(t, &Handler{}, h)
	assert.NotEmpty(t, h.Description())
}

func TestHandler_Text(t *testing.T) {
	out := execute(t, "text")

	assert.Contains(t, out, "testshard version "+constants.Version)
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, "Commit: "+constants.PreCommitHash)
}

func TestHandler_JSON(t *testing.T) {
	out := execute(t, "json")

	var result struct {
		Status   string          `json:"status"`
		Command  string          `json:"command"`
		Data     Data            `json:"data"`
		Metadata output.Metadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, output.StatusSuccess, result.Status)
	assert.Equal(t, constants.ActVersion, result.Command)
	assert.Equal(t, runtime.Version(), result.Data.GoVersion)
	assert.Contains(t, result.Data.Commands, constants.ActVersion)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", result.Metadata.TraceID)
	assert.Equal(t, constants.APIVersion, result.Metadata.APIVersion)
}

func TestHandler_YAML(t *testing.T) {
	out := execute(t, "YAML")

	var result map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Equal(t, constants.ActVersion, result["command"])
}

func TestBuildData_Fallbacks(t *testing.T) {
	d := buildData("", "")
	assert.Equal(t, "dev", d.Version)
	assert.Equal(t, "unknown", d.Commit)

	d = buildData("1.4.0", "abc123")
	assert.Equal(t, "1.4.0", d.Version)
	assert.Equal(t, "abc123", d.Commit)
}
