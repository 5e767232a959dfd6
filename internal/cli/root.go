// Package cli is the terminal client. It plays the device: the session lives
// in a local store and every command starts by restoring it.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"moviewatch/internal/app"
	"moviewatch/internal/config"
	"moviewatch/internal/logger"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Opener builds the client for one command invocation.
type Opener func(ctx context.Context) (*app.Client, error)

// Options are the injectable edges of the CLI.
type Options struct {
	In           io.Reader
	Out          io.Writer
	Open         Opener
	ReadPassword func(prompt string) (string, error)
}

type cli struct {
	opts   Options
	in     *bufio.Reader
	client *app.Client

	logLevel   string
	configDir  string
	devicePath string
}

// NewRootCommand builds the command tree. Zero Options fields get terminal defaults.
func NewRootCommand(opts Options) *cobra.Command {
	c := &cli{opts: opts}
	if c.opts.In == nil {
		c.opts.In = os.Stdin
	}
	if c.opts.Out == nil {
		c.opts.Out = os.Stdout
	}
	c.in = bufio.NewReader(c.opts.In)
	if c.opts.ReadPassword == nil {
		c.opts.ReadPassword = c.readPasswordTerminal
	}
	if c.opts.Open == nil {
		c.opts.Open = c.openFromConfig
	}

	root := &cobra.Command{
		Use:           "moviewatch",
		Short:         "Search movies and keep a list of the ones you want to watch",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.opts.Open(cmd.Context())
			if err != nil {
				return err
			}
			c.client = client
			// a stale session is cleared here; other failures leave the user logged out
			if err := client.Flow.Launch(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not restore session: %v\n", err)
			}
			return nil
		},
	}
	root.SetOut(c.opts.Out)
	root.SetIn(c.opts.In)

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", logger.WarnLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.configDir, "config-dir", "configs", "directory holding config.yml")
	root.PersistentFlags().StringVar(&c.devicePath, "device", "", "device store path (default ~/.moviewatch/device.db)")

	root.AddCommand(
		c.signupCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.searchCmd(),
		c.movieCmd(),
		c.saveCmd(),
		c.savedCmd(),
	)
	return root
}

// Execute runs the CLI against the real terminal and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand(Options{})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describe(err))
		return 1
	}
	return 0
}

func (c *cli) openFromConfig(ctx context.Context) (*app.Client, error) {
	cfg, err := config.Load(c.configDir)
	if err != nil {
		return nil, err
	}
	if c.devicePath != "" {
		cfg.Device.Path = c.devicePath
	}
	if err := cfg.ValidateDirectory(); err != nil {
		return nil, err
	}
	return app.OpenClient(cfg, logger.Get(c.logLevel))
}

// run wraps a command body so the client is closed whether or not it fails.
func (c *cli) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if cerr := c.close(); cerr != nil && err == nil {
			err = cerr
		}
		return err
	}
}

func (c *cli) close() error {
	if c.client == nil || c.client.Close == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// prompt returns value when set, otherwise asks for a line on the input.
func (c *cli) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(c.opts.Out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) password(value string) (string, error) {
	if value != "" {
		return value, nil
	}
	return c.opts.ReadPassword("Password")
}

// readPasswordTerminal reads without echo on a terminal and falls back to a plain line otherwise.
func (c *cli) readPasswordTerminal(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if f, ok := c.opts.In.(*os.File); !ok || f != os.Stdin || !term.IsTerminal(fd) {
		return c.prompt(label, "")
	}
	fmt.Fprintf(c.opts.Out, "%s: ", label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(c.opts.Out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
