package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-govdraft"
	"github.com/alnah/go-govdraft/internal/config"
	"github.com/alnah/go-govdraft/internal/hints"
)

// run dispatches args (without the program name) and returns an exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "export":
		err = runExport(ctx, rest, env)
	case "generate":
		err = runGenerate(ctx, rest, env)
	case "title":
		err = runTitle(ctx, rest, env)
	case "research":
		err = runResearch(ctx, rest, env)
	case "search":
		err = runSearch(ctx, rest, env)
	case "serve":
		err = runServe(ctx, rest, env)
	case "doctor":
		return runDoctorCmd(rest, env)
	case "completion":
		err = runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "govdraft %s\n", Version)
	case "help", "-h", "--help":
		runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintln(env.Stderr, formatError(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// formatError renders err with an actionable hint when one applies.
func formatError(err error) string {
	msg := "error: " + err.Error()

	var missing *missingCredentialsHint
	switch {
	case errors.As(err, &missing):
		return msg + hints.ForMissingAPIKey(missing.vars...)
	case errors.Is(err, govdraft.ErrMissingCredentials):
		return msg + hints.ForMissingAPIKey(envMistralKey, envAzureKey, envAnthropicKey)
	case errors.Is(err, govdraft.ErrSearchNotConfigured):
		return msg + hints.ForMissingAPIKey(envBraveKey)
	case errors.Is(err, govdraft.ErrRateLimited):
		return msg + hints.ForRateLimited()
	case errors.Is(err, govdraft.ErrGenerationFailure):
		return msg + hints.ForUpstream()
	case errors.Is(err, config.ErrConfigNotFound):
		return msg + hints.ForConfigNotFound(userConfigPaths())
	}
	return msg
}

// missingCredentialsHint names the variables for one provider.
type missingCredentialsHint struct {
	vars []string
	err  error
}

func (m *missingCredentialsHint) Error() string { return m.err.Error() }
func (m *missingCredentialsHint) Unwrap() error { return m.err }

func userConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "govdraft", "config.yaml")}
}
