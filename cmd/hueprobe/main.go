// hueprobe - dominant colours of an image, with names
//
// hueprobe samples an image, buckets similar pixels and reports the colours
// covering most of it, each labelled with its nearest reference name.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/hueprobe/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
