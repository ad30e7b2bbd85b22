package plan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/remaster/internal/codec"
	"github.com/vmunix/remaster/internal/source"
	"github.com/vmunix/remaster/internal/tags"
)

// stubTags serves canned metadata keyed by path.
type stubTags map[string]tags.Metadata

func (s stubTags) Read(path string) tags.Metadata { return s[path] }

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestPlan_TargetPaths(t *testing.T) {
	tmp := t.TempDir()
	src1 := filepath.Join(tmp, "in", "one.flac")
	src2 := filepath.Join(tmp, "in", "two.flac")
	writeFile(t, src1)
	writeFile(t, src2)

	dest := filepath.Join(tmp, "out")
	reader := stubTags{
		src1: {Artist: "A", Title: "One"},
		src2: {Artist: "A", Title: "Two"},
	}

	sources := []*source.Source{
		{Filepath: src1, Spec: source.TranscodeSpec{Codec: codec.Vorbis}, FileNumber: 1, TotalFiles: 2},
		{Filepath: src2, Spec: source.CopySpec(), FileNumber: 2, TotalFiles: 2},
	}

	p := New(reader, Options{DestRoot: dest, Template: "<artist>/<title>"})
	units, err := p.Plan(sources)
	require.NoError(t, err)
	require.Len(t, units, 2)

	// Codec extension for transcodes, source extension for copies.
	require.Equal(t, filepath.Join(dest, "A", "One.ogg"), units[0].TargetPath)
	require.Equal(t, filepath.Join(dest, "A", "Two.flac"), units[1].TargetPath)
	require.Equal(t, StatusReady, units[0].Status)
	require.Equal(t, StatusReady, units[1].Status)

	// Non-colliding templates produce pairwise distinct targets.
	require.NotEqual(t, units[0].TargetPath, units[1].TargetPath)
}

func TestPlan_PlaylistTemplateSelection(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "song.mp3")
	writeFile(t, src)

	sources := []*source.Source{{
		Filepath:           src,
		Spec:               source.CopySpec(),
		PlaylistFile:       filepath.Join(tmp, "mix.m3u"),
		FileNumber:         1,
		TotalFiles:         1,
		PlaylistFileNumber: 1,
		PlaylistTotalFiles: 1,
	}}

	p := New(stubTags{}, Options{
		DestRoot:         tmp,
		Template:         "plain/<filename>",
		PlaylistTemplate: "<playlist_name>/<playlist_filenumber>",
	})
	units, err := p.Plan(sources)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(tmp, "mix", "01.mp3"), units[0].TargetPath)
}

func TestPlan_OverwritePolicy(t *testing.T) {
	newer := time.Now()
	older := newer.Add(-time.Hour)

	tests := []struct {
		name     string
		mode     OverwriteMode
		destTime *time.Time // nil = destination absent
		want     Status
	}{
		{name: "absent is ready", mode: OverwriteNever, destTime: nil, want: StatusReady},
		{name: "never skips existing", mode: OverwriteNever, destTime: &newer, want: StatusSkippedExists},
		{name: "always replaces existing", mode: OverwriteAlways, destTime: &older, want: StatusReady},
		{name: "if-older replaces older", mode: OverwriteIfOlder, destTime: &older, want: StatusReady},
		{name: "if-older skips newer", mode: OverwriteIfOlder, destTime: &newer, want: StatusSkippedExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmp := t.TempDir()
			src := filepath.Join(tmp, "song.mp3")
			writeFile(t, src)
			require.NoError(t, os.Chtimes(src, newer, newer))

			dest := filepath.Join(tmp, "out")
			if tt.destTime != nil {
				target := filepath.Join(dest, "song.mp3")
				writeFile(t, target)
				require.NoError(t, os.Chtimes(target, *tt.destTime, *tt.destTime))
			}

			sources := []*source.Source{{Filepath: src, Spec: source.CopySpec(), FileNumber: 1, TotalFiles: 1}}
			p := New(stubTags{}, Options{DestRoot: dest, Overwrite: tt.mode})
			units, err := p.Plan(sources)
			require.NoError(t, err)
			require.Equal(t, tt.want, units[0].Status)
		})
	}
}

func TestPlan_IfOlderEqualMtimeSkips(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "song.mp3")
	writeFile(t, src)
	dest := filepath.Join(tmp, "out")
	target := filepath.Join(dest, "song.mp3")
	writeFile(t, target)

	// Strictly older, not older-or-equal: identical mtimes must skip.
	stamp := time.Now().Truncate(time.Second)
	require.NoError(t, os.Chtimes(src, stamp, stamp))
	require.NoError(t, os.Chtimes(target, stamp, stamp))

	sources := []*source.Source{{Filepath: src, Spec: source.CopySpec(), FileNumber: 1, TotalFiles: 1}}
	p := New(stubTags{}, Options{DestRoot: dest, Overwrite: OverwriteIfOlder})
	units, err := p.Plan(sources)
	require.NoError(t, err)
	require.Equal(t, StatusSkippedExists, units[0].Status)
}

func TestPlan_ReplanAfterRunSkipsEverything(t *testing.T) {
	tmp := t.TempDir()
	dest := filepath.Join(tmp, "out")
	var sources []*source.Source
	for _, name := range []string{"a.mp3", "b.mp3", "c.mp3"} {
		src := filepath.Join(tmp, name)
		writeFile(t, src)
		sources = append(sources, &source.Source{Filepath: src, Spec: source.CopySpec()})
	}
	for i, s := range sources {
		s.FileNumber = i + 1
		s.TotalFiles = len(sources)
	}

	p := New(stubTags{}, Options{DestRoot: dest, Overwrite: OverwriteNever})
	units, err := p.Plan(sources)
	require.NoError(t, err)

	// Simulate a completed run by materializing every target.
	for _, unit := range units {
		writeFile(t, unit.TargetPath)
	}

	replanned, err := p.Plan(sources)
	require.NoError(t, err)
	for _, unit := range replanned {
		require.Equal(t, StatusSkippedExists, unit.Status)
	}
}

func TestPlan_CollisionFails(t *testing.T) {
	tmp := t.TempDir()
	src1 := filepath.Join(tmp, "one.mp3")
	src2 := filepath.Join(tmp, "two.mp3")
	writeFile(t, src1)
	writeFile(t, src2)

	reader := stubTags{
		src1: {Title: "Same"},
		src2: {Title: "Same"},
	}
	sources := []*source.Source{
		{Filepath: src1, Spec: source.CopySpec(), FileNumber: 1, TotalFiles: 2},
		{Filepath: src2, Spec: source.CopySpec(), FileNumber: 2, TotalFiles: 2},
	}

	p := New(reader, Options{DestRoot: tmp, Template: "<title>"})
	_, err := p.Plan(sources)
	require.ErrorIs(t, err, ErrTargetCollision)
}

func TestPlan_EscapingTargetFails(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "song.mp3")
	writeFile(t, src)

	sources := []*source.Source{{Filepath: src, Spec: source.CopySpec(), FileNumber: 1, TotalFiles: 1}}
	p := New(stubTags{}, Options{DestRoot: filepath.Join(tmp, "out"), Template: "../<filename>"})
	_, err := p.Plan(sources)
	require.ErrorIs(t, err, ErrUnsafePath)
}
