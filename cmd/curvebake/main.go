// Command curvebake bakes every curve in a YAML curve asset into lookup
// textures.
//
// Usage:
//
//	curvebake curves.yaml
//	curvebake -out build/lut -max-width 1024 curves.yaml
//	curvebake -wav -wav-rate 8000 curves.yaml   # also write an audible preview
//	curvebake -parallel=false curves.yaml        # bake curves one at a time
//
// For each curve NAME the command writes NAME.bin (tightly packed
// little-endian float32 texels, ready for a texture upload) and NAME.yaml
// describing the texture format, size and sampler state.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	curvetex "github.com/tphakala/go-curve-texture"
	"github.com/tphakala/go-curve-texture/internal/curvefile"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", defaultOutDir, "Output directory")
	maxWidth := flag.Int("max-width", 0, "Maximum texture width (overrides the asset; 0 keeps it)")
	seedStep := flag.Float64("seed-step", 0, "Initial smallest-step estimate in (0, 1] (overrides the asset; 0 keeps it)")
	parallel := flag.Bool("parallel", true, "Bake curves concurrently")
	writeWAV := flag.Bool("wav", false, "Also write a 16-bit WAV preview of each texture")
	wavRate := flag.Int("wav-rate", defaultWAVRate, "Sample rate of the WAV preview in Hz")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] curves.yaml\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	if *verbose {
		curvetex.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	inputPath := args[0]
	asset, err := curvefile.Load(inputPath)
	if err != nil {
		return err
	}

	config := asset.Config()
	if *maxWidth != 0 {
		config.MaxWidth = *maxWidth
	}
	if *seedStep != 0 {
		config.SeedStep = *seedStep
	}
	baker, err := curvetex.NewBaker(&config)
	if err != nil {
		return err
	}

	if *verbose {
		effective := baker.Config()
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", *outDir)
		log.Printf("Curves: %d", len(asset.Curves))
		log.Printf("Seed step: %g, max width: %d", effective.SeedStep, effective.MaxWidth)
		if *parallel {
			log.Printf("Parallel: enabled (one goroutine per curve)")
		} else {
			log.Printf("Parallel: disabled (sequential baking)")
		}
		if *writeWAV {
			log.Printf("WAV preview: %d Hz", *wavRate)
		}
	}

	start := time.Now()
	var baked []curvefile.Baked
	if *parallel && len(asset.Curves) > 1 {
		baked, err = asset.BakeParallel(baker)
	} else {
		baked, err = asset.Bake(baker)
	}
	if err != nil {
		return err
	}

	opts := writeOptions{
		dir:     *outDir,
		wav:     *writeWAV,
		wavRate: *wavRate,
	}
	var total int64
	for _, b := range baked {
		if err := writeBaked(b, opts); err != nil {
			return err
		}
		total += int64(len(b.Texture.Bytes()))
		fmt.Printf("%-16s %-8s %5d x %d  %s\n",
			b.Name, b.Kind, b.Texture.Width, b.Texture.Height, formatName(b.Texture.Format))
	}

	fmt.Printf("Baked %d curves (%.2f KB) in %s\n",
		len(baked), float64(total)/bytesPerKilobyte, time.Since(start).Round(time.Microsecond))
	return nil
}
