package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lowc/internal/ast"
	"lowc/internal/fold"
	"lowc/internal/version"
)

func newASTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [flags] FILE",
		Short: "Print or convert an AST file",
		Long:  "Print an AST file in surface syntax, optionally folded, or re-encode it (.last <-> .json).",
		Args:  cobra.ExactArgs(1),
		RunE:  astExecution,
	}
	cmd.Flags().Bool("fold", false, "fold constants before printing")
	cmd.Flags().String("convert", "", "write the (folded) AST to this path; encoding follows the extension")
	return cmd
}

func astExecution(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	doFold, err := cmd.Flags().GetBool("fold")
	if err != nil {
		return err
	}
	convert, err := cmd.Flags().GetString("convert")
	if err != nil {
		return err
	}

	path := resolveAgainst(dir, args[0])
	f, err := ast.ReadFile(path)
	if err != nil {
		return err
	}
	if err := version.CheckProducer(f.Producer); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", path, err)
	}
	m := f.Module
	if doFold {
		if m, err = fold.Module(cmd.Context(), m); err != nil {
			return err
		}
	}

	if convert != "" {
		out := &ast.File{Producer: "lowc " + version.Version, Module: m}
		return ast.WriteFile(resolveAgainst(dir, convert), out)
	}
	return ast.Dump(cmd.OutOrStdout(), m)
}
