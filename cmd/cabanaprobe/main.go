// Command cabanaprobe renders field frames to PNG without a window and
// explains how individual pixels got their color.
//
// Usage: go run ./cmd/cabanaprobe -frame 0 -count 100 -out frames -probe 50,50
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pthm-cable/cabana/config"
	"github.com/pthm-cable/cabana/noise"
	"github.com/pthm-cable/cabana/raster"
	"github.com/pthm-cable/cabana/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	seed := flag.Int64("seed", 0, "Point seed (0 = config, then time-based)")
	frame := flag.Int64("frame", 0, "First frame to render")
	count := flag.Int64("count", 1, "Number of consecutive frames")
	outDir := flag.String("out", "", "Directory for PNG output (empty = no images)")
	width := flag.Int("width", 0, "Output width (0 = raster width)")
	height := flag.Int("height", 0, "Output height (0 = raster height)")
	filterName := flag.String("filter", "", "Scaling filter: nearest or bilinear (empty = config)")
	probeAt := flag.String("probe", "", "Pixel to explain as x,y")
	stats := flag.Bool("stats", false, "Print per-frame channel statistics")
	points := flag.Bool("points", false, "Print the sample points")
	flag.Parse()

	if *count < 1 {
		log.Fatal("-count must be at least 1")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	filter := cfg.Screen.Filter
	if *filterName != "" {
		if filter, err = raster.ParseFilter(*filterName); err != nil {
			log.Fatal(err)
		}
	}

	pointSeed := cfg.Points.ResolveSeed(*seed)
	if *seed == 0 && cfg.Points.Seed == 0 {
		fmt.Fprintf(os.Stderr, "using time-based seed %d\n", pointSeed)
	}
	set, err := noise.NewPointSet(cfg.Raster.Width, cfg.Raster.Height, cfg.Points.Count, pointSeed)
	if err != nil {
		log.Fatal(err)
	}
	field, err := noise.NewField(cfg.Raster.Width, cfg.Raster.Height, set, cfg.Palette)
	if err != nil {
		log.Fatal(err)
	}

	if *points {
		printPoints(set)
	}

	var px, py int
	probing := *probeAt != ""
	if probing {
		if px, py, err = parsePixel(*probeAt); err != nil {
			log.Fatalf("invalid -probe: %v", err)
		}
	}

	writer, err := telemetry.NewSnapshotWriter(*outDir, *width, *height, filter)
	if err != nil {
		log.Fatal(err)
	}

	buf := field.NewBuffer()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if *stats {
		fmt.Fprintln(tw, "frame\tz\tmean_r\tmean_g\tmean_b\tluma_p10\tluma_p50\tluma_p90")
	}

	for f := *frame; f < *frame+*count; f++ {
		if err := field.Evaluate(f, buf); err != nil {
			log.Fatal(err)
		}

		if writer != nil {
			path, err := writer.Save(f, buf)
			if err != nil {
				log.Fatalf("frame %d: %v", f, err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		}

		if *stats {
			s := telemetry.ComputeFrameStats(f, field.Depth(f), buf)
			fmt.Fprintf(tw, "%d\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
				s.Frame, s.Depth, s.MeanR, s.MeanG, s.MeanB, s.LumaP10, s.LumaP50, s.LumaP90)
		}

		if probing {
			p, ok := field.Probe(f, px, py)
			if !ok {
				log.Fatalf("pixel (%d, %d) is outside the %dx%d raster", px, py, field.Width(), field.Height())
			}
			printProbe(tw, p, set)
		}
	}
	tw.Flush()
}

func parsePixel(s string) (x, y int, err error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%q: want x,y", s)
	}
	if x, err = strconv.Atoi(strings.TrimSpace(xs)); err != nil {
		return 0, 0, err
	}
	if y, err = strconv.Atoi(strings.TrimSpace(ys)); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func printPoints(set *noise.PointSet) {
	fmt.Printf("points (seed %d):\n", set.Seed())
	for i := 0; i < set.Len(); i++ {
		p := set.At(i)
		fmt.Printf("  #%-2d  x=%7.3f  y=%7.3f  z=%7.3f\n", i, p.X, p.Y, p.Z)
	}
}

func printProbe(w io.Writer, p noise.Probe, set *noise.PointSet) {
	fmt.Fprintf(w, "pixel (%d, %d) z=%.0f -> rgba(%d, %d, %d, %d)\n",
		p.X, p.Y, p.Z, p.Color.R, p.Color.G, p.Color.B, p.Color.A)
	for rank, d := range p.Distances {
		q := set.At(p.Nearest[rank])
		fmt.Fprintf(w, "  d%d = %8.3f  point #%d (%.2f, %.2f, %.2f)\n", rank, d, p.Nearest[rank], q.X, q.Y, q.Z)
	}
}
