package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ridloal/meoris-storefront/internal/cli"
	"github.com/ridloal/meoris-storefront/internal/platform/config"
	"github.com/ridloal/meoris-storefront/internal/platform/logger"
)

func main() {
	config.LoadDotEnv()
	logger.SetLevel(logger.ParseLevel(config.GetEnv("LOG_LEVEL", "error")))

	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
