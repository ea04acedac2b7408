package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sukhavati-Labs/go-sysutil/cipher"
	"github.com/Sukhavati-Labs/go-sysutil/stream"
	"github.com/Sukhavati-Labs/go-sysutil/version"
	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	var suppress bool
	c := &cobra.Command{
		Use:   "cat [-s] [FILE...]",
		Short: "Concatenate files, or standard input when no file is given, to standard output",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := stream.Concat(cmd.OutOrStdout(), cmd.ErrOrStderr(), cmd.InOrStdin(), args, suppress)
			if err != nil {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&suppress, "silent", "s", false, "suppress error messages for unreadable inputs")
	return c
}

func newCipherCmd() *cobra.Command {
	var decode bool
	c := &cobra.Command{
		Use:   "cipher IN OUT SHIFT",
		Short: "Shift every byte of IN by SHIFT modulo 256 and write the result to OUT",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shift, err := cipher.ParseShift(args[2])
			if err != nil {
				return &exitError{code: 1, err: err}
			}
			if err := cipher.EncodeFile(args[0], args[1], shift, decode); err != nil {
				return &exitError{code: 1, err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "File processed successfully")
			return nil
		},
	}
	c.Flags().BoolVarP(&decode, "decode", "d", false, "apply the inverse shift")
	return c
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cp SRC DST",
		Short: "Copy SRC to DST, replacing DST if it exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stream.Copy(args[0], args[1]); err != nil {
				return &exitError{code: stream.CopyExitCode(err), err: err}
			}
			return nil
		},
	}
}

func newPwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pwd",
		Short: "Print the current working directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return &exitError{code: 1, err: err}
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Clean(dir))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cmd.Root().Name(), version.GetVersion())
		},
	}
}
