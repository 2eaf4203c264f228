// Command cortex is the CLI entry point: index a repository, research a
// question against it, and generate its cross-linked wiki.
package main

import "github.com/cortex-research/cortex/internal/cli"

func main() {
	cli.Execute()
}
