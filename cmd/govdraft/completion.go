package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Desc     string
	IsBool   bool
	Values   []string // enum values
	FileGlob string   // file completion pattern
}

// commandDef describes a command for completion.
type commandDef struct {
	Name  string
	Desc  string
	Flags []flagDef
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string
	FileGlob string
}

var flagCompletionMeta = map[string]completionMeta{
	"type":        {Values: []string{"blog", "news", "announcement"}},
	"format":      {Values: []string{"html", "markdown", "pdf"}},
	"log-format":  {Values: []string{"console", "json"}},
	"date-format": {Values: []string{"iso", "european", "us", "long", "timestamp"}},
	"config":      {FileGlob: "*.yaml *.yml"},
	"css":         {FileGlob: "*.css"},
}

// extractFlags reads flag definitions from a FlagSet.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			IsBool: f.Value.Type() == "bool",
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			fd.Values = meta.Values
			fd.FileGlob = meta.FileGlob
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	var (
		ef   exportFlags
		gf   generateFlags
		rf   researchFlags
		sf   serveFlags
		cf   commonFlags
		json bool
	)
	return []commandDef{
		{Name: "export", Desc: "Export markdown as a GOV.UK document", Flags: extractFlags(newExportFlagSet(&ef))},
		{Name: "generate", Desc: "Generate a draft on a topic", Flags: extractFlags(newGenerateFlagSet("generate", &gf))},
		{Name: "title", Desc: "Generate a title for a topic", Flags: extractFlags(newGenerateFlagSet("title", &gf))},
		{Name: "research", Desc: "Search GOV.UK and synthesize a draft", Flags: extractFlags(newResearchFlagSet("research", &rf))},
		{Name: "search", Desc: "Search GOV.UK", Flags: extractFlags(newResearchFlagSet("search", &rf))},
		{Name: "serve", Desc: "Run the HTTP API", Flags: extractFlags(newServeFlagSet(&sf))},
		{Name: "doctor", Desc: "Check configuration", Flags: extractFlags(newDoctorFlagSet(&cf, &json))},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes a shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for govdraft\n")
	b.WriteString("_govdraft() {\n")
	b.WriteString("  local cur prev cmd\n")
	b.WriteString("  cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("  prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("  cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("  if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "    COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("    return\n  fi\n\n")

	b.WriteString("  case \"$prev\" in\n")
	for _, name := range sortedMetaNames() {
		meta := flagCompletionMeta[name]
		if len(meta.Values) > 0 {
			fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", name, strings.Join(meta.Values, " "))
		} else {
			fmt.Fprintf(&b, "    --%s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", name)
		}
	}
	b.WriteString("  esac\n\n")

	b.WriteString("  case \"$cmd\" in\n")
	for _, c := range cmds {
		if c.Name == "completion" {
			b.WriteString("    completion) COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\")) ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
			if f.Short != "" {
				opts = append(opts, "-"+f.Short)
			}
		}
		fmt.Fprintf(&b, "    %s) COMPREPLY=($(compgen -W %q -- \"$cur\") $(compgen -f -- \"$cur\")) ;;\n", c.Name, strings.Join(opts, " "))
	}
	b.WriteString("  esac\n}\n")
	b.WriteString("complete -F _govdraft govdraft\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef govdraft\n\n")
	b.WriteString("_govdraft() {\n")
	b.WriteString("  local -a commands\n")
	b.WriteString("  commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "    '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("  )\n\n")
	b.WriteString("  if (( CURRENT == 2 )); then\n")
	b.WriteString("    _describe 'command' commands\n")
	b.WriteString("    return\n  fi\n\n")
	b.WriteString("  case \"$words[2]\" in\n")
	for _, c := range cmds {
		if c.Name == "completion" {
			b.WriteString("    completion) _values 'shell' bash zsh fish ;;\n")
			continue
		}
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n      _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		b.WriteString("        '*:file:_files'\n      ;;\n")
	}
	b.WriteString("  esac\n}\n\n")
	b.WriteString("_govdraft \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshAction(f flagDef) string {
	switch {
	case f.IsBool:
		return ""
	case len(f.Values) > 0:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case f.FileGlob != "":
		return ":file:_files -g '" + f.FileGlob + "'"
	default:
		return ":value:"
	}
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for govdraft\n")
	b.WriteString("complete -c govdraft -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c govdraft -n '__fish_use_subcommand' -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	b.WriteString("complete -c govdraft -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'\n")
	for _, c := range cmds {
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c govdraft -n '__fish_seen_subcommand_from %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch {
			case len(f.Values) > 0:
				fmt.Fprintf(&b, " -x -a '%s'", strings.Join(f.Values, " "))
			case f.FileGlob != "":
				b.WriteString(" -r -F")
			case !f.IsBool:
				b.WriteString(" -r")
			}
			fmt.Fprintf(&b, " -d '%s'\n", fishEscape(f.Desc))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func sortedMetaNames() []string {
	names := make([]string, 0, len(flagCompletionMeta))
	for name := range flagCompletionMeta {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: govdraft completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(govdraft completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(govdraft completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    govdraft completion fish > ~/.config/fish/completions/govdraft.fish")
}
