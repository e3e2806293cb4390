// Command condemus renders tracker projects to WAV files or plays them
// through the default audio device.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "condemus",
	Short:         "Tracker music renderer",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("condemus: ")

	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
