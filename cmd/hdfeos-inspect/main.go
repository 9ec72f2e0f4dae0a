// Command hdfeos-inspect lists the swaths of an HDF-EOS file and the
// tables and arrays under each of their groups.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.Errorf("hdfeos-inspect: %v", err)
		os.Exit(1)
	}
}
