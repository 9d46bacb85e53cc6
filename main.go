package main

import (
	"os"

	"github.com/nmehta6/admitchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
