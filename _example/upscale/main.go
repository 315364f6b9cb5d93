package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/octu0/dctscale"
)

func main() {
	var (
		src     = flag.String("src", "src.png", "source png")
		initN   = flag.Int("init", 8, "source block size")
		targetN = flag.Int("target", 16, "target block size")
		verbose = flag.Bool("v", false, "debug log")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	img, err := loadPNG(*src)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}

	// shrink the source by the same factor first so the result can be
	// compared against the original
	origin := cropToMultiple(img, *targetN)
	small := resizeBox(origin, *targetN, *initN)

	ip, err := dctscale.NewInterpolator(*initN, *targetN, dctscale.WithLogger(logger))
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}

	t := time.Now()
	scaled, err := ip.ScaleRGBA(small)
	if err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	elapsed := time.Since(t)

	nearest := resizeNN(small, *initN, *targetN)

	fmt.Printf("src %v -> %v -> %v elapse=%s\n", origin.Bounds(), small.Bounds(), scaled.Bounds(), elapsed)
	fmt.Printf(" [dct]     PSNR=%.2f\n", CalcPSNR(origin, scaled))
	fmt.Printf(" [nearest] PSNR=%.2f\n", CalcPSNR(origin, nearest))

	if err := saveImage(origin, "out_origin.png"); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	if err := saveImage(scaled, "out_dct.png"); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
	if err := saveImage(nearest, "out_nearest.png"); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}
}
