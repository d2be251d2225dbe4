package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-speech/configs"
	"github.com/RyanBlaney/sonido-speech/report"
	"github.com/RyanBlaney/sonido-speech/table"
)

func TestConfigKey(t *testing.T) {
	assert.Equal(t, "prosody.f0min", configKey("f0min"))
	assert.Equal(t, "tables.purge_empty", configKey("purge-empty"))
	assert.Equal(t, "workers", configKey("workers"))
}

func TestReduceThenMergeCommands(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	write("a.csv", "filename,F1frequency\na.wav,500\na.wav,700\n")
	write("b.csv", "filename,F1frequency\nb.wav,400\n")
	empty := write("c.csv", "")

	rootCmd.SetArgs([]string{"reduce", "--folder", dir, "--log-level", "error"})
	require.NoError(t, Execute(context.Background()))
	assert.NoFileExists(t, empty)

	output := filepath.Join(t.TempDir(), "formants.csv")
	reportFile := filepath.Join(t.TempDir(), "report.yaml")
	rootCmd.SetArgs([]string{"merge", "--folder", dir, "--output", output, "--report", reportFile, "--log-level", "error"})
	require.NoError(t, Execute(context.Background()))

	merged, err := table.Read(output)
	require.NoError(t, err)
	assert.Equal(t, []string{"filename", "F1frequency"}, merged.Header)
	assert.ElementsMatch(t, [][]string{{"a.wav", "600"}, {"b.wav", "400"}}, merged.Rows)

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, yaml.Unmarshal(data, &rep))
	assert.Equal(t, "merge", rep.Command)
	assert.Equal(t, 2, rep.Processed)
}

func TestDiscoverRecordingsFollowsDecoder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.wav", "b.flac", "c.MP3", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	names := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = filepath.Base(p)
		}
		return out
	}

	cfg := &configs.Config{}
	paths, err := discoverRecordings(cfg, newDecoder(cfg), dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.wav"}, names(paths))

	cfg.Audio.FFmpegPath = "ffmpeg"
	paths, err = discoverRecordings(cfg, newDecoder(cfg), dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.wav", "b.flac", "c.MP3"}, names(paths))

	cfg.Audio.Extensions = []string{"flac"}
	paths, err = discoverRecordings(cfg, newDecoder(cfg), dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b.flac"}, names(paths))
}
