package main

import (
	"fmt"
	"os"

	"fjacquet/stmt-clean/cmd/batch"
	"fjacquet/stmt-clean/cmd/clean"
	"fjacquet/stmt-clean/cmd/root"
	"fjacquet/stmt-clean/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(clean.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
