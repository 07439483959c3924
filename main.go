package main

import (
	"fmt"
	"os"

	"github.com/zeu5/keyword-rl/benchmarks"
)

// main entry point to all the commands
func main() {
	rootCommand := benchmarks.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
