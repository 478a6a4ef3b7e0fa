// cmd/taylorintctl/main.go — CLI front end for the expr/taylor
// decomposition-and-integration pipeline.
//
// Usage:
//   taylorintctl decompose kepler2
//   taylorintctl integrate exponential --to 1 --config taylorintctl.yaml
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("taylorintctl failed")
		os.Exit(1)
	}
}
