package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) encodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode name value",
		Short: "Print the encoded form of a header field",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runEncode,
	}
}

// runEncode writes the field named by the first argument, holding the second
// argument as its value, exactly as it would appear in a message.
func (a *app) runEncode(cmd *cobra.Command, args []string) error {
	f, err := a.newField(args[0], args[1])
	if err != nil {
		return err
	}

	enc := f.Encoded()
	a.logger.Debug("encoded field",
		"name", f.Name(),
		"lines", strings.Count(enc, "\r\n"),
	)

	_, err = fmt.Fprint(cmd.OutOrStdout(), enc)
	return err
}
