package main

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	constants "github.com/ImGajeed76/fortdoc/internal"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/config"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/console"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/logging"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/path"
	sftpmanager "github.com/ImGajeed76/fortdoc/pkg/fortdoc/sftp"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.PrimaryColor))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.ErrorColor))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.WarningColor))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.TertiaryColor))
)

// terminal decides whether prompts and the progress bar may be shown.
var terminal = logging.IsTerminal

// app is the state shared by all commands of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	creds    *config.Credentials
	closeLog func() error

	// serializes password prompts of concurrent workers
	promptMu sync.Mutex
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   constants.AppName,
		Short: "Generate LaTeX documentation from annotated Fortran sources",
		Long: `fortdoc reads a manifest of Fortran source files, extracts the !! and !>
documentation comments of their procedures, types and programs, and writes one
LaTeX file per source. Review comments marked with !? are gathered into a
separate report.`,
		Version:            constants.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: ./"+config.FileName+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newGenerateCmd(a),
		newReportCmd(a),
		newShowCmd(a),
		newBrowseCmd(a),
		newUnlistedCmd(),
		newWatchCmd(a),
		newConfigCmd(a),
		newAuthCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	closeLog, err := logging.Setup(logging.Options{
		Level:   cfg.Logging.Level,
		Verbose: a.verbose,
		File:    cfg.Logging.File,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.closeLog = closeLog

	creds, err := config.NewCredentials(constants.AppName)
	if err != nil {
		return err
	}
	a.creds = creds
	path.Configure(cfg.RemoteOptions(a.password))

	log.Debug().Str("command", cmd.Name()).Int("workers", cfg.Workers).Msg("configured")
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	manager := sftpmanager.GetGlobalManager()
	if pooled := manager.Stats(); len(pooled) > 0 {
		log.Debug().Int("connections", len(pooled)).Msg("closing sftp connections")
	}
	manager.Close()
	if a.closeLog != nil {
		return a.closeLog()
	}
	return nil
}

// password looks up the keyring and asks on the terminal when nothing is
// stored. A typed password is kept for the next run.
func (a *app) password(user, host string) (string, error) {
	a.promptMu.Lock()
	defer a.promptMu.Unlock()

	password, err := a.creds.Lookup(user, host)
	if err == nil {
		return password, nil
	}
	if !terminal(os.Stdin) {
		return "", err
	}

	log.Debug().Str("host", host).Msg("no stored password, prompting")
	password, err = a.creds.SetFromInput(config.HostKey(user, host),
		console.PasswordOptions(fmt.Sprintf("Password for %s:", config.HostKey(user, host))))
	if errors.Is(err, console.ErrCancelled) {
		return "", fmt.Errorf("no password for %s", config.HostKey(user, host))
	}
	return password, err
}

func (a *app) options() fortdoc.Options {
	return fortdoc.Options{
		OutputDir:     a.cfg.OutputDir,
		CommentsFile:  a.cfg.CommentsFile,
		Encoding:      a.cfg.Encoding,
		Workers:       a.cfg.Workers,
		FailFast:      a.cfg.FailFast,
		MintedOptions: a.cfg.MintedOptions,
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.AppName, constants.Version)
		},
	}
}
