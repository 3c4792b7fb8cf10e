package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-email-text/tools/hdrtext/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
