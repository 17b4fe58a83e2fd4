package main

import (
	"os"

	"github.com/unionj-cloud/go-doudou/v2/toolkit/zlogger"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		zlogger.Error().Err(err).Msg("promdash failed")
		os.Exit(1)
	}
}
