package main

import (
	"fmt"
	"os"

	"fjacquet/txncat/cmd/categorize"
	"fjacquet/txncat/cmd/parse"
	"fjacquet/txncat/cmd/root"
	"fjacquet/txncat/cmd/rules"
	"fjacquet/txncat/cmd/serve"
)

func init() {
	root.Cmd.AddCommand(parse.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
