// Utility program to merge layered configuration documents from the command line
package main

import (
	"fmt"
	"os"

	"github.com/Tyrael/chef/cli"
)

func main() {
	cmd := cli.NewCommand()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(cmd.OutOrStderr(), err)
		os.Exit(1)
	}
}
