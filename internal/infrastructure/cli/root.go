package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/margit/internal/app"
	"github.com/doeshing/margit/internal/application/proposal"
	"github.com/doeshing/margit/internal/infrastructure/cli/commands"
	configinfra "github.com/doeshing/margit/internal/infrastructure/config"
	"github.com/doeshing/margit/internal/pkg/logger"
	"github.com/doeshing/margit/internal/ports"
	"github.com/doeshing/margit/internal/version"
)

// ErrMissingMessage is returned when neither a message nor --dummy is given.
// main prints it verbatim.
var ErrMissingMessage = errors.New("Looks like you forgot to add a message. Run `margit -h` or `margit -help` if you need support")

// AboutText is printed by --about.
const AboutText = "Author: doeshing\nThis package helps non-developers use git."

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// Build overrides the container factory in tests.
	Build func(context.Context, app.Options) (*app.Container, error)
	// NewLogger builds the subcommand logger; it defaults to logger.New.
	NewLogger func(verbose bool) (ports.Logger, error)
}

// Execute runs the root command over args. A lone -help is read as --help.
func Execute(ctx context.Context, opts Options, args []string) error {
	root := NewRootCmd(opts)
	root.SetArgs(NormalizeArgs(args))
	return root.ExecuteContext(ctx)
}

// NormalizeArgs rewrites the single-dash -help into --help so that it is not
// parsed as the shorthand group -h -e -l -p. Arguments after "--" are kept.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i, arg := range out {
		if arg == "--" {
			break
		}
		if arg == "-help" {
			out[i] = "--help"
		}
	}
	return out
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Build == nil {
		opts.Build = app.BuildContainer
	}
	if opts.NewLogger == nil {
		opts.NewLogger = func(verbose bool) (ports.Logger, error) { return logger.New(verbose) }
	}

	var (
		about bool
		dummy bool
		debug bool
	)

	root := &cobra.Command{
		Use:   "margit [message...]",
		Short: "margit - git in plain words",
		Long: "margit turns a plain-language request into git commands, explains them,\n" +
			"and runs them after you confirm.",
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if about {
				fmt.Fprintln(cmd.OutOrStdout(), AboutText)
				return nil
			}

			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" && !dummy {
				return ErrMissingMessage
			}

			return runPipeline(cmd.Context(), opts, debug, proposal.Request{Message: message, Dummy: dummy})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetVersionTemplate(commands.VersionInfo())
	root.CompletionOptions.DisableDefaultCmd = true
	// A message such as "help me undo my last commit" belongs to the model;
	// -h and --help still print usage.
	root.SetHelpCommand(&cobra.Command{Use: "__help", Hidden: true})

	root.Flags().BoolVar(&about, "about", false, "Show information about the author and this package")
	root.Flags().BoolVar(&dummy, "dummy", false, "Use dummy data for testing")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose logging")

	env := &commands.Env{Loader: configinfra.NewFileLoader(""), Logger: logger.NewNop()}
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd == root {
			return nil
		}
		log, err := opts.NewLogger(opts.Verbose || debug)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		env.Logger = log
		return nil
	}
	root.AddCommand(commands.NewHistoryCommand(env))
	root.AddCommand(commands.NewConfigCommand(env))
	root.AddCommand(commands.NewDoctorCommand(env))
	return root
}

func runPipeline(ctx context.Context, opts Options, debug bool, req proposal.Request) error {
	// The key prompt and the confirmation read the same piped stream.
	if !isTerminal(opts.Stdin) {
		opts.Stdin = bufio.NewReader(opts.Stdin)
	}
	container, err := opts.Build(ctx, app.Options{
		Verbose:  opts.Verbose || debug,
		Dummy:    req.Dummy,
		Stdin:    opts.Stdin,
		Stderr:   opts.Stderr,
		Renderer: NewRenderer(opts.Stdout),
		Prompter: NewPrompter(opts.Stdin, opts.Stdout),
		Progress: NewProgress(opts.Stderr),
	})
	if err != nil {
		return err
	}
	defer container.Close()

	_, err = container.ProposalService.Run(ctx, req)
	return err
}
