package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/alnah/go-govdraft/internal/logger"
	"github.com/joho/godotenv"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// A missing .env is normal; existing variables win over the file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	setMaxProcs(slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose"))

	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}

// setMaxProcs aligns GOMAXPROCS with the container CPU quota. The
// adjustment is reported at debug level, so it only shows under -v.
func setMaxProcs(verbose bool) func() {
	log := logger.Nop()
	if verbose {
		if l, err := logger.New("", true); err == nil {
			log = l
		}
	}
	undo, err := maxprocs.Set(maxprocs.Logger(log.Printf))
	if err != nil {
		log.Warn("setting GOMAXPROCS", "error", err)
	}
	return undo
}
