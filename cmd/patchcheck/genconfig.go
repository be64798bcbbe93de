package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"patchcheck/pkg/config"
	"patchcheck/pkg/errors"
)

func newGenConfigCmd() *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := config.GenerateConfigContent()

			if !write {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			path := ".patchcheck.toml"
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrInvalidInput, MsgConfigExists, path)
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "writing %s", path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)

	return cmd
}
