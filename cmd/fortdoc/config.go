package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/config"
	"github.com/ImGajeed76/fortdoc/pkg/fortdoc/console"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a config file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := config.FileName
			if len(args) == 1 {
				location = args[0]
			}

			if _, err := os.Stat(location); err == nil && !force {
				ok, err := confirm(fmt.Sprintf("%s exists. Overwrite?", location))
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
			}

			if err := config.Default().Save(location); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ wrote "+location))
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := yaml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage SFTP passwords in the system keyring",
	}

	setCmd := &cobra.Command{
		Use:   "set <user@host>",
		Short: "Store the password for an SFTP host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, host, err := config.ParseHostKey(args[0])
			if err != nil {
				return err
			}
			key := config.HostKey(user, host)

			if a.creds.Exists(key) {
				ok, err := confirm("A password for " + key + " is stored. Replace it?")
				if err != nil || !ok {
					return err
				}
			}

			options := console.PasswordOptions("Password for " + key + ":")
			if _, err := a.creds.SetFromInput(key, options); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ stored password for "+key))
			return nil
		},
	}

	var all bool
	deleteCmd := &cobra.Command{
		Use:   "delete [user@host]",
		Short: "Remove a stored password",
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				if err := a.creds.DeleteAll(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ removed all stored passwords"))
				return nil
			}

			user, host, err := config.ParseHostKey(args[0])
			if err != nil {
				return err
			}
			key := config.HostKey(user, host)
			if err := a.creds.Delete(key); err != nil {
				return fmt.Errorf("removing %s: %w", key, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ removed password for "+key))
			return nil
		},
	}
	deleteCmd.Flags().BoolVar(&all, "all", false, "remove every stored password")

	cmd.AddCommand(setCmd, deleteCmd)
	return cmd
}

// confirm asks on the terminal. Without one it refuses.
func confirm(prompt string) (bool, error) {
	if !terminal(os.Stdin) {
		return false, errors.New(prompt + " (use --force or a terminal)")
	}
	options := console.DefaultYesNoOptions()
	options.Prompt = prompt
	options.DefaultYes = false
	ok, err := console.YesNo(options)
	if errors.Is(err, console.ErrCancelled) {
		return false, nil
	}
	return ok, err
}
