package main

import "github.com/theirongolddev/payback/cmd"

func main() {
	cmd.Execute()
}
