package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/config"
	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/errors"
)

// configCommand creates the configuration file command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configInitCommand writes the defaults, including every drawing's table,
// as a starting configuration.
func (c *CLI) configInitCommand() *cobra.Command {
	var (
		force  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == stdoutPath {
				return config.Default().Write(cmd.OutOrStdout(), drawing.Builtins())
			}
			path := output
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config directory")
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := config.Default().Write(f, drawing.Builtins()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess("Wrote configuration")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default the config path, - for stdout)")
	return cmd
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.Path()
			if path == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configShowCommand prints the effective configuration after the file and
// defaults are merged.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Drawing tables stay undecoded until a drawing runs.
			shown := *c.Config
			shown.Drawing = nil
			return shown.Write(cmd.OutOrStdout(), nil)
		},
	}
}
