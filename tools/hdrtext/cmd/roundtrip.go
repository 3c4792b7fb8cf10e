package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zostay/go-email-text/header/field"
)

// ErrRoundTrip is returned when a value does not survive being encoded and
// decoded again.
var ErrRoundTrip = errors.New("value changed during round trip")

func (a *app) roundtripCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip name value",
		Short: "Encode a header field, parse it back, and show any difference",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runRoundTrip,
	}
}

// runRoundTrip encodes the field, parses the encoded form, and decodes it. The
// encoded form is printed. When the decoded value differs from the original, a
// diff is printed and ErrRoundTrip is returned.
func (a *app) runRoundTrip(cmd *cobra.Command, args []string) error {
	f, err := a.newField(args[0], args[1])
	if err != nil {
		return err
	}

	enc := f.Encoded()
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprint(out, enc); err != nil {
		return err
	}

	if a.cfg.FoldLength != field.DoNotFold {
		for i, line := range strings.Split(strings.TrimSuffix(enc, "\r\n"), "\r\n") {
			if len(line) > a.cfg.FoldLength {
				a.logger.Warn("line exceeds fold length",
					"line", i+1,
					"length", len(line),
					"fold_length", a.cfg.FoldLength,
				)
			}
		}
	}

	opts, err := a.cfg.Options()
	if err != nil {
		return err
	}

	p, err := field.Parse([]byte(enc), opts...)
	if err != nil {
		return fmt.Errorf("unable to parse encoded field: %w", err)
	}

	dec, _ := p.Decoded()
	if dec == args[1] {
		a.logger.Info("round trip ok", "name", p.Name())
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(args[1], dec, false)
	if _, err := fmt.Fprintln(out, dmp.DiffPrettyText(diffs)); err != nil {
		return err
	}

	return ErrRoundTrip
}
