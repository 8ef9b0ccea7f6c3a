package main

import "github.com/cmmoran/cdecl/cmd"

func main() {
	cmd.Execute()
}
