package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-modelviewer/internal/config"
)

func configCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage config.yaml",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved settings to --config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeConfig(s.configPath, s.config(), force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", s.configPath)
			return nil
		},
	}
	f := initCmd.Flags()
	f.BoolVar(&force, "force", false, "overwrite an existing file")
	f.StringVar(&s.addr, "addr", ":8080", "HTTP listen address")
	f.BoolVar(&s.watch, "watch", false, "reload pages when model files change")
	f.StringVar(&s.serialPort, "serial-port", "", "serial port streaming i,j,k,real orientation lines")
	f.IntVar(&s.serialBaud, "serial-baud", 115200, "serial baud rate")
	cmd.AddCommand(initCmd)
	return cmd
}

func writeConfig(path string, c *config.Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s exists; use --force to overwrite", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return config.Save(path, c)
}
