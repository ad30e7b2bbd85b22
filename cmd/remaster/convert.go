package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vmunix/remaster/internal/codec"
	"github.com/vmunix/remaster/internal/config"
	"github.com/vmunix/remaster/internal/convert"
	"github.com/vmunix/remaster/internal/history"
	"github.com/vmunix/remaster/internal/plan"
	"github.com/vmunix/remaster/internal/playlist"
	"github.com/vmunix/remaster/internal/regen"
	"github.com/vmunix/remaster/internal/source"
	"github.com/vmunix/remaster/internal/tags"
)

// convertOptions holds the convert command's flag values.
type convertOptions struct {
	codec            string
	quality          int
	bitrate          int
	template         string
	playlistTemplate string
	playlistFormat   string
	overwriteOlder   bool
	overwriteAlways  bool
	forceTranscode   bool
	noTranscodeFor   []string
	dryRun           bool
	jobs             int
	utf8             bool
	noHistory        bool
}

var convertFlags convertOptions

var convertCmd = &cobra.Command{
	Use:   "convert INPUTS... DESTDIR",
	Short: "Convert audio files, directories, and playlists into DESTDIR",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runConvert,
}

func init() {
	registerConvertFlags(convertCmd.Flags())
}

func registerConvertFlags(f *pflag.FlagSet) {
	f.StringVarP(&convertFlags.codec, "codec", "c", "", "Target codec (copy, mp3, vorbis, opus, aac, flac)")
	f.IntVarP(&convertFlags.quality, "quality", "q", 0, "Encoder quality (mutually exclusive with --bitrate)")
	f.IntVarP(&convertFlags.bitrate, "bitrate", "b", 0, "Encoder bitrate in kbit/s (mutually exclusive with --quality)")
	f.StringVarP(&convertFlags.template, "template", "t", "", "Destination naming template, e.g. '<artist>/<album>/<track> <title>'")
	f.StringVar(&convertFlags.playlistTemplate, "playlist-template", "", "Naming template for playlist members (defaults to --template)")
	f.StringVar(&convertFlags.playlistFormat, "playlist-format", "", "Destination playlist format (m3u, m3u8, pls)")
	f.BoolVarP(&convertFlags.overwriteOlder, "overwrite-older", "o", false, "Overwrite destination files older than their source")
	f.BoolVarP(&convertFlags.overwriteAlways, "overwrite", "O", false, "Overwrite destination files unconditionally")
	f.BoolVarP(&convertFlags.forceTranscode, "force-transcode", "f", false, "Transcode even when the source is already in the target format")
	f.StringArrayVarP(&convertFlags.noTranscodeFor, "no-transcode-for", "n", nil, "Copy instead of transcoding sources with this extension (repeatable)")
	f.BoolVar(&convertFlags.dryRun, "dry-run", false, "Show the plan without converting anything")
	f.IntVarP(&convertFlags.jobs, "jobs", "j", 0, "Parallel workers (default: CPU count)")
	f.BoolVar(&convertFlags.utf8, "utf8", false, "Write legacy .m3u playlists as UTF-8")
	f.BoolVar(&convertFlags.noHistory, "no-history", false, "Do not record this run in the history database")
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputs := args[:len(args)-1]
	destRoot := args[len(args)-1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mergeConvertFlags(cmd, cfg)

	log := newLogger(cfg.Convert.LogLevel)

	targetCodec, err := codec.Lookup(cfg.Convert.Codec)
	if err != nil {
		if suggestion := config.SuggestCodec(cfg.Convert.Codec); suggestion != "" {
			return fmt.Errorf("%w (did you mean %q?)", err, suggestion)
		}
		return err
	}
	if cfg.Convert.Quality != nil && cfg.Convert.Bitrate != nil {
		return fmt.Errorf("--quality and --bitrate are mutually exclusive")
	}
	if convertFlags.overwriteOlder && convertFlags.overwriteAlways {
		return fmt.Errorf("--overwrite-older and --overwrite are mutually exclusive")
	}
	playlistFormat, err := parsePlaylistFormat(cfg.Convert.PlaylistFormat)
	if err != nil {
		return err
	}

	overwrite := overwriteMode(convertFlags)

	spec := source.TranscodeSpec{
		Codec:          targetCodec,
		ForceTranscode: convertFlags.forceTranscode,
		Quality:        cfg.Convert.Quality,
		Bitrate:        cfg.Convert.Bitrate,
	}

	noTranscodeFor := make(map[string]bool, len(cfg.Convert.NoTranscodeFor))
	for _, ext := range cfg.Convert.NoTranscodeFor {
		noTranscodeFor[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := source.Resolve(inputs, spec, noTranscodeFor)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		log.Info("no audio files found, nothing to do")
		return nil
	}

	planner := plan.New(tags.NewFileReader(), plan.Options{
		DestRoot:         destRoot,
		Template:         cfg.Convert.Template,
		PlaylistTemplate: cfg.Convert.PlaylistTemplate,
		Overwrite:        overwrite,
	})
	units, err := planner.Plan(sources)
	if err != nil {
		return err
	}

	if convertFlags.dryRun {
		printPlan(units)
		return nil
	}

	startedAt := time.Now()
	executor := convert.NewExecutor(convert.NewFFmpeg(), cfg.Convert.Jobs, log)
	summary := executor.Execute(ctx, units)

	if !summary.Interrupted {
		regen.WritePlaylists(units, regen.Options{
			DestRoot:  destRoot,
			Overwrite: overwrite != plan.OverwriteNever,
			Format:    playlistFormat,
			ForceUTF8: convertFlags.utf8,
		}, log)
	}

	if !convertFlags.noHistory && !cfg.History.Disabled {
		recordHistory(cfg, log, startedAt, destRoot, string(targetCodec), summary, units)
	}

	fmt.Printf("%d completed, %d skipped, %d failed\n",
		summary.Completed, summary.Skipped, summary.Failed)

	if summary.Interrupted {
		return errInterrupted
	}
	return nil
}

// parsePlaylistFormat maps the configured format name to a playlist
// format. Empty keeps each playlist's original format.
func parsePlaylistFormat(name string) (playlist.Format, error) {
	switch strings.ToLower(name) {
	case "":
		return "", nil
	case "m3u":
		return playlist.FormatM3U, nil
	case "m3u8":
		return playlist.FormatM3U8, nil
	case "pls":
		return playlist.FormatPLS, nil
	}
	return "", fmt.Errorf("unsupported playlist format %q", name)
}

// overwriteMode maps the overwrite flags to a plan policy. --overwrite
// wins over --overwrite-older; the exclusivity check already rejected
// passing both.
func overwriteMode(opts convertOptions) plan.OverwriteMode {
	switch {
	case opts.overwriteAlways:
		return plan.OverwriteAlways
	case opts.overwriteOlder:
		return plan.OverwriteIfOlder
	}
	return plan.OverwriteNever
}

// mergeConvertFlags overlays explicitly-set CLI flags onto the file
// configuration.
func mergeConvertFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("codec") {
		cfg.Convert.Codec = convertFlags.codec
	}
	if f.Changed("quality") {
		q := convertFlags.quality
		cfg.Convert.Quality = &q
		cfg.Convert.Bitrate = nil
	}
	if f.Changed("bitrate") {
		b := convertFlags.bitrate
		cfg.Convert.Bitrate = &b
		if !f.Changed("quality") {
			cfg.Convert.Quality = nil
		}
	}
	if f.Changed("template") {
		cfg.Convert.Template = convertFlags.template
	}
	if f.Changed("playlist-template") {
		cfg.Convert.PlaylistTemplate = convertFlags.playlistTemplate
	}
	if f.Changed("playlist-format") {
		cfg.Convert.PlaylistFormat = convertFlags.playlistFormat
	}
	if f.Changed("jobs") {
		cfg.Convert.Jobs = convertFlags.jobs
	}
	if f.Changed("no-transcode-for") {
		cfg.Convert.NoTranscodeFor = convertFlags.noTranscodeFor
	}
}

func printPlan(units []*plan.WorkUnit) {
	for _, unit := range units {
		fmt.Printf("%-15s %s -> %s\n", unit.Status, unit.Source.Filepath, unit.TargetPath)
	}
	summary := convert.Summarize(units, false)
	ready := 0
	for _, unit := range units {
		if unit.Status == plan.StatusReady {
			ready++
		}
	}
	fmt.Printf("plan: %d to convert, %d skipped\n", ready, summary.Skipped)
}

func recordHistory(cfg *config.Config, log *slog.Logger, startedAt time.Time, destRoot, codecName string, summary convert.Summary, units []*plan.WorkUnit) {
	path := cfg.History.Path
	if path == "" {
		path = history.DefaultPath()
	}
	store, err := history.Open(path)
	if err != nil {
		log.Warn("history database unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	run := &history.Run{
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		DestRoot:   destRoot,
		Codec:      codecName,
		Completed:  summary.Completed,
		Skipped:    summary.Skipped,
		Failed:     summary.Failed,
	}
	if err := store.RecordRun(run, units); err != nil {
		log.Warn("recording run history failed", "error", err)
	}
}
