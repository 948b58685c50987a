package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iwvelando/portfolio-optimizer/internal/cli"
	"github.com/iwvelando/portfolio-optimizer/pkg/constants"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = constants.DefaultVersion

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:], os.Stdout, version); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
