package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/Tyrael/chef"
)

var helpTemplate = `Description:
  {{rpad .Long 10}}

Usage:{{if .Runnable}}{{if .HasAvailableFlags}}
  {{appendIfNotPresent .UseLine "[flags]"}}{{else}}{{.UseLine}}{{end}}{{end}}{{if gt .Aliases 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample }}

Examples:
  {{ .Example }}{{end}}{{ if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimRightSpace}}{{end}}
`

// OptString is a string option that can differentiate between an empty string and no value
type OptString struct {
	value *string
}

// Type of option
func (s *OptString) Type() string {
	return "stringpointer"
}

// String value
func (s *OptString) String() string {
	if s == nil || s.value == nil {
		return ``
	}
	return *s.value
}

// Set sets the string value
func (s *OptString) Set(v string) error {
	s.value = &v
	return nil
}

// StringPointer returns the internal value pointer
func (s *OptString) StringPointer() *string {
	return s.value
}

var (
	cmdOpts  chef.CommandOptions
	knockout OptString
	logLevel string
)

// NewCommand creates the merge Command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <base> [<overlay> ...]",
		Short: `Merge - Combine layered configuration documents`,
		Long: `Merge - Combine layered configuration documents into one resolved structure.
    Documents are given lowest precedence first; each following document is merged
    over the result as an overlay. Use - to read a YAML document from stdin.`,
		Version: fmt.Sprintf("%v", getVersion()),
		RunE:    cmdMerge,
		Args:    cobra.MinimumNArgs(1)}

	flags := cmd.Flags()
	flags.StringVar(&logLevel, `loglevel`, `error`,
		`error/warn/info/debug`)
	flags.Var(&knockout, `knockout-prefix`,
		`sentinel that marks overlay entries as deletion requests against the base`)
	flags.BoolVar(&cmdOpts.HorizontalPrecedence, `horizontal`, false,
		`treat the documents as members of the same precedence tier (concatenate arrays in legacy mode)`)
	flags.BoolVar(&cmdOpts.PreserveUnmergeables, `preserve-unmergeables`, false,
		`keep conflicting base values instead of overwriting them`)
	flags.BoolVar(&cmdOpts.SortMergedArrays, `sort-arrays`, false,
		`sort every merged array`)
	flags.StringVar(&cmdOpts.UnpackArrays, `unpack-arrays`, ``,
		`delimiter used to split delimiter-joined strings into discrete array elements`)
	flags.BoolVar(&cmdOpts.LegacyArrayConcat, `legacy-array-concat`, false,
		`let precedence decide between array concatenation and replacement instead of set-union`)
	flags.StringVar(&cmdOpts.RenderAs, `render-as`, ``,
		`s/json/yaml: Specify the output format of the result; s means plain text`)

	cmd.SetHelpTemplate(helpTemplate)
	return cmd
}

func cmdMerge(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	hclog.DefaultOptions = &hclog.LoggerOptions{
		Name:  `merge`,
		Level: hclog.LevelFromString(logLevel),
	}
	cmdOpts.KnockoutPrefix = knockout.StringPointer()
	return chef.MergeAndRender(&cmdOpts, args, cmd.OutOrStdout())
}
