package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments
	Args        []string // fixed positional values (help topics, shells)
}

// completionMeta holds completion-specific metadata for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format":          {Values: []string{"pdf", "json", "html"}},
	"page-size":       {Values: []string{"letter", "a4", "legal"}},
	"orientation":     {Values: []string{"portrait", "landscape"}},
	"footer-position": {Values: []string{"left", "center", "right"}},
	"theme":           {Values: previewThemes},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},
	"style":  {FileGlob: "*.css"},

	// Directory flags
	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// inputGlob matches the files convert and preview accept.
const inputGlob = "*.md,*.markdown,*.csv,*.txt,*.zip"

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the real FlagSets.
func getCommands() []commandDef {
	convertFS := flag.NewFlagSet(cmdConvert, flag.ContinueOnError)
	registerConvertFlags(convertFS, &convertFlags{})
	previewFS := flag.NewFlagSet(cmdPreview, flag.ContinueOnError)
	registerPreviewFlags(previewFS, &previewFlags{})
	doctorFS := flag.NewFlagSet(cmdDoctor, flag.ContinueOnError)
	registerDoctorFlags(doctorFS)

	return []commandDef{
		{Name: cmdConvert, Desc: "Convert documents to PDF, JSON or HTML", Flags: extractFlagsFromFlagSet(convertFS), TakesFiles: true, FilePattern: inputGlob},
		{Name: cmdPreview, Desc: "Render documents in the terminal", Flags: extractFlagsFromFlagSet(previewFS), TakesFiles: true, FilePattern: inputGlob},
		{Name: cmdDoctor, Desc: "Check browser and environment", Flags: extractFlagsFromFlagSet(doctorFS)},
		{Name: cmdVersion, Desc: "Show version information"},
		{Name: cmdHelp, Desc: "Show help for a command", Args: []string{cmdConvert, cmdPreview, cmdDoctor, cmdVersion, cmdHelp, cmdCompletion}},
		{Name: cmdCompletion, Desc: "Generate shell completion script", Args: []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var script string
	switch shell {
	case ShellBash:
		script = generateBash(getCommands())
	case ShellZsh:
		script = generateZsh(getCommands())
	case ShellFish:
		script = generateFish(getCommands())
	case ShellPowerShell:
		script = generatePowerShell(getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
	_, err := io.WriteString(w, script)
	return err
}

// runCompletionCmd handles the completion command and returns an exit code.
func runCompletionCmd(args []string, env *Environment) int {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return ExitSuccess
	}
	if err := GenerateCompletion(env.Stdout, Shell(args[0])); err != nil {
		printError(env, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# bash completion for ragdoc\n\n")
	b.WriteString("_ragdoc() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	fmt.Fprintf(&b, "    if [[ ${COMP_CWORD} -eq 1 ]]; then\n        COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n        return\n    fi\n\n", commandNames(cmds))

	b.WriteString("    case \"${cmd}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)

		var valueCases []string
		for _, f := range c.Flags {
			if f.Type == flagBool {
				continue
			}
			var action string
			switch f.Type {
			case flagEnum:
				action = fmt.Sprintf("COMPREPLY=($(compgen -W %q -- \"${cur}\"))", strings.Join(f.Values, " "))
			case flagFile:
				action = "COMPREPLY=($(compgen -f -- \"${cur}\"))"
			case flagDir:
				action = "COMPREPLY=($(compgen -d -- \"${cur}\"))"
			default:
				action = "COMPREPLY=()"
			}
			valueCases = append(valueCases, fmt.Sprintf("                %s)\n                    %s\n                    return\n                    ;;\n", flagAlternatives(f, "|"), action))
		}
		if len(valueCases) > 0 {
			b.WriteString("            case \"${prev}\" in\n")
			for _, vc := range valueCases {
				b.WriteString(vc)
			}
			b.WriteString("            esac\n")
		}

		if len(c.Flags) > 0 {
			fmt.Fprintf(&b, "            if [[ \"${cur}\" == -* ]]; then\n                COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n                return\n            fi\n", flagWords(c.Flags))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "            COMPREPLY=($(compgen -W %q -- \"${cur}\"))\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			b.WriteString("            COMPREPLY=($(compgen -f -- \"${cur}\"))\n")
		}
		b.WriteString("            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _ragdoc ragdoc\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("#compdef ragdoc\n\n")
	b.WriteString("_ragdoc() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"${words[2]}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 && len(c.Args) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(&b, "        %s)\n", c.Name)
		b.WriteString("            _arguments -s")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n                %s", zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, " \\\n                '*:arg:(%s)'", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, " \\\n                '*:file:_files -g \"%s\"'", zshGlob(c.FilePattern))
		}
		b.WriteString("\n            ;;\n")
	}
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _ragdoc ragdoc\n")
	return b.String()
}

// zshFlagSpec builds an _arguments spec for one flag.
func zshFlagSpec(f flagDef) string {
	desc := "[" + zshEscape(f.Desc) + "]"
	var value string
	switch f.Type {
	case flagBool:
	case flagEnum:
		value = ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		value = ":file:_files -g \"" + zshGlob(f.FileGlob) + "\""
	case flagDir:
		value = ":directory:_files -/"
	default:
		value = ":value:"
	}
	if f.Short == "" {
		return "'--" + f.Long + desc + value + "'"
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, value)
}

// zshGlob turns "*.a,*.b" into "*.(a|b)".
func zshGlob(globs string) string {
	parts := strings.Split(globs, ",")
	if len(parts) == 1 {
		return parts[0]
	}
	exts := make([]string, len(parts))
	for i, p := range parts {
		exts[i] = strings.TrimPrefix(p, "*.")
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# fish completion for ragdoc\n\n")
	b.WriteString("complete -c ragdoc -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c ragdoc -n __fish_use_subcommand -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := fmt.Sprintf("-n '__fish_seen_subcommand_from %s'", c.Name)
		for _, f := range c.Flags {
			var sb strings.Builder
			fmt.Fprintf(&sb, "complete -c ragdoc %s", cond)
			if f.Short != "" {
				fmt.Fprintf(&sb, " -s %s", f.Short)
			}
			fmt.Fprintf(&sb, " -l %s", f.Long)
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&sb, " -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				sb.WriteString(" -r -F")
			case flagDir:
				sb.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				sb.WriteString(" -x")
			}
			fmt.Fprintf(&sb, " -d '%s'\n", fishEscape(f.Desc))
			b.WriteString(sb.String())
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c ragdoc %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, "complete -c ragdoc %s -F\n", cond)
		}
	}
	return b.String()
}

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(cmds []commandDef) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion for ragdoc\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName ragdoc -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    $command = ''\n")
	b.WriteString("    if ($elements.Count -gt 2 -or ($elements.Count -eq 2 -and $wordToComplete -eq '')) { $command = $elements[1] }\n")
	b.WriteString("    $completions = switch ($command) {\n")
	for _, c := range cmds {
		var words []string
		for _, f := range c.Flags {
			words = append(words, "'--"+f.Long+"'")
		}
		for _, a := range c.Args {
			words = append(words, "'"+a+"'")
		}
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(&b, "        '%s' { @(%s) }\n", c.Name, strings.Join(words, ", "))
	}
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = "'" + c.Name + "'"
	}
	fmt.Fprintf(&b, "        default { @(%s) }\n", strings.Join(names, ", "))
	b.WriteString("    }\n")
	b.WriteString("    $completions | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// flagWords lists every spelling of the flags, long and short.
func flagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

// flagAlternatives joins the spellings of one flag with sep.
func flagAlternatives(f flagDef, sep string) string {
	if f.Short == "" {
		return "--" + f.Long
	}
	return "--" + f.Long + sep + "-" + f.Short
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ragdoc completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(ragdoc completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(ragdoc completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    ragdoc completion fish > ~/.config/fish/completions/ragdoc.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    ragdoc completion powershell | Out-String | Invoke-Expression")
}
