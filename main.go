package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/df07/go-blackhole-raytracer/pkg/renderer"
	"github.com/df07/go-blackhole-raytracer/pkg/scene"
	"github.com/df07/go-blackhole-raytracer/pkg/texture"
)

// cliConfig is the merged result of the config file and the command line
type cliConfig struct {
	scene.Config
	verbose bool
	help    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}
	if cfg.help {
		return nil
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	renderID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("render_id", renderID)

	params, err := cfg.Params()
	if err != nil {
		return err
	}

	textures, err := loadTextures(cfg.Textures)
	if err != nil {
		return err
	}
	logger.Info("Textures ready", "dir", cfg.Textures.Dir, "procedural", cfg.Textures.Procedural)

	sc, err := scene.New(params, textures)
	if err != nil {
		return err
	}

	r := renderer.NewRenderer(sc, renderer.Options{
		Workers:  cfg.Render.Workers,
		Logger:   logger,
		RenderID: renderID,
	})
	img, stats, renderErr := r.Render(ctx)
	if renderErr != nil && !errors.Is(renderErr, context.Canceled) {
		return renderErr
	}

	filename := outputPath(cfg.Output, time.Now())
	if err := savePNG(filename, img); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Render completed in %v (%d samples, %.0f avg steps)\n",
		stats.Duration, stats.Samples, stats.AverageSteps())
	fmt.Fprintf(stdout, "Render saved as %s\n", filename)

	if renderErr != nil {
		return fmt.Errorf("render interrupted, partial image saved: %w", renderErr)
	}
	return nil
}

// parseFlags reads the optional -config file and applies the flags that were
// set explicitly on top of it
func parseFlags(args []string, out io.Writer) (*cliConfig, error) {
	defaults := scene.DefaultConfig()

	fs := flag.NewFlagSet("blackhole", flag.ContinueOnError)
	fs.SetOutput(out)

	configFile := fs.String("config", "", "YAML scene configuration file")
	distance := fs.Float64("distance", defaults.Camera.Distance, "Camera distance behind the black hole, in horizon radii")
	height := fs.Float64("height", defaults.Camera.Height, "Camera height above the disk plane, in horizon radii")
	fov := fs.Float64("fov", defaults.Camera.FOV, "Horizontal field of view in degrees")
	samples := fs.Int("samples", defaults.Render.Samples, "Samples per pixel width (samples^2 rays per pixel)")
	resolution := fs.String("resolution", defaults.Render.Resolution, "Output resolution WIDTHxHEIGHT")
	diskScale := fs.Float64("disk-scale", defaults.Render.DiskScale, "Disk texture pixels per 3 horizon radii")
	maxSteps := fs.Int("max-steps", defaults.Render.MaxSteps, "Integration step ceiling per ray (0 = unbounded)")
	workers := fs.Int("workers", 0, "Concurrent pixel budget (0 = twice the logical cores)")
	textureDir := fs.String("textures", defaults.Textures.Dir, "Directory holding accretion_disc.png and skybox*.png")
	procedural := fs.Bool("procedural", false, "Generate textures instead of loading them")
	output := fs.String("output", "", "Output PNG path (default output/black_hole_<timestamp>.png)")
	verbose := fs.Bool("v", false, "Verbose (debug) logging")
	help := fs.Bool("help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *help {
		fmt.Fprintln(out, "Black Hole Raytracer")
		fmt.Fprintln(out, "Usage: blackhole [options]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Output will be saved to output/black_hole_<timestamp>.png")
		return &cliConfig{help: true}, nil
	}

	cfg := &cliConfig{Config: defaults, verbose: *verbose}
	if *configFile != "" {
		loaded, err := scene.LoadConfig(*configFile)
		if err != nil {
			return nil, err
		}
		cfg.Config = *loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "distance":
			cfg.Camera.Distance = *distance
		case "height":
			cfg.Camera.Height = *height
		case "fov":
			cfg.Camera.FOV = *fov
		case "samples":
			cfg.Render.Samples = *samples
		case "resolution":
			cfg.Render.Resolution = *resolution
		case "disk-scale":
			cfg.Render.DiskScale = *diskScale
		case "max-steps":
			cfg.Render.MaxSteps = *maxSteps
		case "workers":
			cfg.Render.Workers = *workers
		case "textures":
			cfg.Textures.Dir = *textureDir
		case "procedural":
			cfg.Textures.Procedural = *procedural
		case "output":
			cfg.Output = *output
		}
	})

	if _, err := cfg.Params(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTextures(cfg scene.TextureConfig) (*texture.Set, error) {
	if cfg.Procedural {
		return texture.ProceduralSet(cfg.Seed), nil
	}
	set, err := texture.LoadSet(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("loading textures from %s: %w", cfg.Dir, err)
	}
	return set, nil
}

// outputPath returns path, or a timestamped file in output/ when path is empty
func outputPath(path string, now time.Time) string {
	if path != "" {
		return path
	}
	return filepath.Join("output", fmt.Sprintf("black_hole_%s.png", now.Format("2006-01-02-15-04-05")))
}

func savePNG(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}
