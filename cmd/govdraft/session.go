package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/fileutil"
	"github.com/alnah/go-govdraft/internal/hints"
	"github.com/alnah/go-govdraft/internal/logger"
)

// Sentinel errors for CLI I/O.
var (
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// maxInputSize caps markdown and CSS files read by the CLI.
const maxInputSize = 10 << 20

// session is the runtime a command works with: resolved configuration
// and a logger.
type session struct {
	cfg *config.Config
	log *logger.Logger
	env *Environment
}

// newSession resolves configuration from the config file, the
// environment and defaults, then builds the logger.
func newSession(f commonFlags, env *Environment) (*session, error) {
	envCfg := loadEnvConfig(env.Getenv)
	if !f.quiet {
		warnUnknownEnvVars(env.Stderr, env.Environ())
	}

	cfg := config.DefaultConfig()
	if name := firstNonEmpty(f.config, envCfg.ConfigPath); name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.Nop()
	if !f.quiet {
		l, err := logger.New(firstNonEmpty(f.logFormat, envCfg.LogFormat), f.verbose)
		if err != nil {
			return nil, err
		}
		log = l
	}
	if f.verbose {
		if out, err := cfg.Marshal(); err == nil {
			log.Debug("effective config\n" + string(out))
		}
	}

	return &session{cfg: cfg, log: log, env: env}, nil
}

// drafter builds a Drafter on the configured providers and search.
func (s *session) drafter(opts ...govdraft.Option) (*govdraft.Drafter, error) {
	gen, err := s.env.NewCompleter(s.cfg, s.log)
	if errors.Is(err, govdraft.ErrMissingCredentials) {
		return nil, &missingCredentialsHint{vars: credentialEnvVars(s.cfg.Providers.Primary), err: err}
	}
	if err != nil {
		return nil, err
	}
	opts = append([]govdraft.Option{govdraft.WithLogger(s.log)}, opts...)
	if searcher := s.env.NewSearcher(s.cfg.Search, s.log); searcher != nil {
		opts = append(opts, govdraft.WithSearcher(searcher))
	}
	return govdraft.NewDrafter(gen, opts...)
}

// exporter builds an Exporter from config and the asset flags.
func (s *session) exporter(f assetFlags) (*govdraft.Exporter, error) {
	opts := []govdraft.Option{
		govdraft.WithLogger(s.log),
		govdraft.WithClock(s.env.Now),
		govdraft.WithSyntaxHighlighting(f.highlight || s.cfg.Export.Highlight),
	}
	if format := firstNonEmpty(f.dateFormat, s.cfg.Export.DateFormat); format != "" {
		opts = append(opts, govdraft.WithDateFormat(format))
	}
	if dir := firstNonEmpty(f.assetPath, s.cfg.Export.AssetsDir); dir != "" {
		opts = append(opts, govdraft.WithAssetPath(dir))
	}
	if path := firstNonEmpty(f.css, s.cfg.Export.CSS); path != "" {
		css, err := readInput(path, nil)
		if err != nil {
			return nil, err
		}
		opts = append(opts, govdraft.WithCSS(css))
	}
	return govdraft.NewExporter(opts...)
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	var r io.Reader
	if path == "-" && stdin != nil {
		r = stdin
	} else {
		f, err := os.Open(path) // #nosec G304 -- path is user-provided
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadInput, err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxInputSize))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return string(data), nil
}

// writeOutput writes content to path atomically, or to stdout when
// path is empty.
func writeOutput(path, content string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, ensureTrailingNewline(content))
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: creating %s: %w%s", ErrWriteOutput, dir, err, hints.ForOutputDirectory())
		}
	}
	if err := fileutil.WriteFileAtomic(path, []byte(content)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

func ensureTrailingNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseContentType validates the --type flag.
func parseContentType(s string) (govdraft.ContentType, error) {
	ct := govdraft.ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.Valid() {
		return "", fmt.Errorf("%w: %w: %q (want blog, news or announcement)", govdraft.ErrInvalidInput, govdraft.ErrInvalidContentType, s)
	}
	return ct, nil
}
