package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pixeldex/pkg/canvas"
	"pixeldex/pkg/dither"
	"pixeldex/pkg/fetch"
	"pixeldex/pkg/palette"
	"pixeldex/pkg/quant"
	"pixeldex/pkg/sprite"
)

const defaultBaseURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/official-artwork"

// --all covers the original 151.
const maxIdentifier = 151

var out = flag.String("out", "sprites", "output root directory")
var id = flag.Int("id", 0, "process a single identifier")
var from = flag.Int("from", 0, "first identifier of a range")
var to = flag.Int("to", 0, "last identifier of a range")
var all = flag.Bool("all", false, fmt.Sprintf("process identifiers 1 through %d", maxIdentifier))
var delay = flag.Float64("delay", 1, "seconds to wait between acquisition calls")
var noDither = flag.Bool("no-dither", false, "disable error diffusion")
var force = flag.Bool("force", false, "regenerate outputs even if they exist")
var verify = flag.Bool("verify", false, "check dimensions of existing outputs before skipping")
var margin = flag.Int("margin", 0, "transparent inset inside each canvas")
var baseURL = flag.String("base-url", defaultBaseURL, "artwork source URL prefix")
var showPalette = flag.Bool("palette", false, "print the palette and exit")
var debug = flag.Bool("debug", false, "set debug")

func identifiers() ([]int, error) {
	switch {
	case *id > 0:
		return []int{*id}, nil
	case *all:
		return lo.RangeFrom(1, maxIdentifier), nil
	case *from > 0 && *to >= *from:
		ids := make([]int, 0, *to-*from+1)
		for i := *from; i <= *to; i++ {
			ids = append(ids, i)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("select identifiers with --id, --from/--to, or --all")
	}
}

func printPalette(p *palette.Palette) {
	for _, cat := range palette.Categories() {
		colors, _ := p.Category(cat)
		fmt.Printf("%s:", cat)
		for _, c := range colors {
			fmt.Printf(" #%02x%02x%02x", c.R, c.G, c.B)
		}
		fmt.Println()
	}
}

func main() {
	flag.Parse()

	pal := palette.Retro56()

	if *showPalette {
		printPalette(pal)
		return
	}

	ids, err := identifiers()
	if err != nil {
		log.Fatal(err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lo.Ternary(*debug, zapcore.DebugLevel, zapcore.InfoLevel))
	logger, err := cfg.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	fs, err := sprite.NewOutputFs(*out)
	if err != nil {
		log.Fatal(err)
	}

	var ditherOpts []dither.Option
	if *noDither {
		ditherOpts = append(ditherOpts, dither.WithoutDiffusion())
	}

	bar := progressbar.Default(int64(len(ids)), "processing")

	opts := []sprite.Option{
		sprite.WithDelay(time.Duration(*delay * float64(time.Second))),
		sprite.WithObserver(func(sprite.Result) {
			_ = bar.Add(1)
		}),
	}
	if *force {
		opts = append(opts, sprite.WithForce())
	}
	if *verify {
		opts = append(opts, sprite.WithIntegrityCheck())
	}

	pipeline := sprite.NewPipeline(
		fetch.NewClient(*baseURL, logger),
		canvas.NewComposer(canvas.WithMargin(*margin)),
		dither.New(quant.New(pal), ditherOpts...),
		fs,
		logger,
		opts...,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary := pipeline.Run(ctx, ids)

	logger.Info("batch finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	for _, f := range summary.Failures {
		logger.With(zap.Int("id", f.ID), zap.Error(f.Err)).Info("failed")
	}

	if summary.Failed > 0 {
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}
