package main

import (
	"os"

	"wmstudio/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.LogError("%v", err)
		os.Exit(1)
	}
}
