// Package main implements the vpnforge CLI tool.
// It provisions and tears down a single-instance VPN deployment.
package main

import "github.com/vpnforge/vpnforge/cmd/vpnforge/cmd"

func main() {
	cmd.Execute()
}
