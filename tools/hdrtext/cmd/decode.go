package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-email-text/header"
)

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [file]",
		Short: "Print the decoded value of every field in a header",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runDecode,
	}
}

// runDecode reads a header block from the named file, or from stdin, and writes
// one "Name: value" line per field with every encoded-word decoded. Anything
// after the first blank line is ignored.
func (a *app) runDecode(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) > 0 {
		hf, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("unable to open header file: %w", err)
		}
		defer func() { _ = hf.Close() }()
		in = hf
	}

	m, lb, _, err := header.Read(in)
	if err != nil {
		return fmt.Errorf("unable to read header: %w", err)
	}

	opts, err := a.cfg.Options()
	if err != nil {
		return err
	}

	fs, err := header.Parse(m, lb, opts...)
	var badStart *header.BadStartError
	switch {
	case errors.As(err, &badStart):
		a.logger.Warn("skipped text at start of header", "text", string(badStart.BadStart))
	case err != nil:
		return err
	}

	a.logger.Debug("parsed header", "fields", len(fs))

	out := cmd.OutOrStdout()
	for _, f := range fs {
		dec, _ := f.Decoded()
		if _, err := fmt.Fprintf(out, "%s: %s\n", f.Name(), dec); err != nil {
			return err
		}
	}

	return nil
}
