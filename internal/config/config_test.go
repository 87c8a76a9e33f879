package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_StringAndBool(t *testing.T) {
	t.Parallel()

	cfg := New()
	assert.Equal(t, "fallback", cfg.GetString("missing", "fallback"))
	assert.False(t, cfg.GetBool("missing", false))
	assert.True(t, cfg.GetBool("missing", true))

	cfg.SetString(KeyPipelineName, "job1")
	assert.Equal(t, "job1", cfg.GetString(KeyPipelineName, ""))

	cfg.SetBool(KeyExecutionAttached, true)
	assert.True(t, cfg.GetBool(KeyExecutionAttached, false))

	// An unparseable boolean falls back to the default.
	cfg.SetString(KeyExecutionAttached, "definitely")
	assert.True(t, cfg.GetBool(KeyExecutionAttached, true))
	assert.False(t, cfg.GetBool(KeyExecutionAttached, false))
}

func TestConfiguration_StringList(t *testing.T) {
	t.Parallel()

	cfg := New()
	assert.Nil(t, cfg.GetStringList(KeyPipelineArchives))

	archives := []string{"/libs/a.jar", "/libs/b.jar", "/tmp/session123.jar"}
	require.NoError(t, cfg.SetStringList(KeyPipelineArchives, archives))
	assert.Equal(t, archives, cfg.GetStringList(KeyPipelineArchives))

	// A later write replaces the whole snapshot.
	require.NoError(t, cfg.SetStringList(KeyPipelineArchives, []string{"/tmp/s.jar"}))
	assert.Equal(t, []string{"/tmp/s.jar"}, cfg.GetStringList(KeyPipelineArchives))
}

func TestConfiguration_StringListRejectsSeparator(t *testing.T) {
	t.Parallel()

	cfg := New()
	require.NoError(t, cfg.SetStringList(KeyPipelineArchives, []string{"/libs/a.jar"}))

	err := cfg.SetStringList(KeyPipelineArchives, []string{"/libs/bad;archive.jar"})
	require.Error(t, err)

	// The previous value survives a failed write.
	assert.Equal(t, []string{"/libs/a.jar"}, cfg.GetStringList(KeyPipelineArchives))
}

func TestEncodeStringList_RoundTrip(t *testing.T) {
	t.Parallel()

	encoded, err := EncodeStringList(nil)
	require.NoError(t, err)
	assert.Empty(t, encoded)
	assert.Nil(t, DecodeStringList(encoded))

	encoded, err = EncodeStringList([]string{"/a,with,commas.jar", "/b.jar"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a,with,commas.jar", "/b.jar"}, DecodeStringList(encoded))
}

func TestConfiguration_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	cfg := New()
	cfg.SetString(KeyEngineEndpoint, "http://engine:8081")

	clone := cfg.Clone()
	clone.SetString(KeyEngineEndpoint, "http://other:8081")

	assert.Equal(t, "http://engine:8081", cfg.GetString(KeyEngineEndpoint, ""))
	assert.Equal(t, "http://other:8081", clone.GetString(KeyEngineEndpoint, ""))
}

func TestConfiguration_KeysSorted(t *testing.T) {
	t.Parallel()

	cfg := New()
	cfg.SetString("z.last", "1")
	cfg.SetString("a.first", "2")
	cfg.SetString("m.middle", "3")

	assert.Equal(t, []string{"a.first", "m.middle", "z.last"}, cfg.Keys())
}
