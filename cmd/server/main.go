// Package main implements the entry point for the tasklog API server, a
// shared task list with user accounts and an audit trail of every change.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Printf("Error executing command: %v", err)
		os.Exit(1)
	}
}
