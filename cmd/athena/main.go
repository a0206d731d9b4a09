// Package main - athena analytics CLI
//
// 사용법:
//
//	go run ./cmd/athena risk -f portfolio.yaml --source synthetic
//	go run ./cmd/athena performance --account ACC-1
package main

import (
	"os"

	"github.com/petergfitz2/athena-ai-sub000/cmd/athena/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
