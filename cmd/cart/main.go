package main

import (
	cartcmd "github.com/sfc-gh-amelatti/cortex-agents-role-tool-CART/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cartcmd.SetVersionInfo(version, commit)
	cartcmd.Execute()
}
