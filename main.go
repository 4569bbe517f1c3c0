package main

import "github.com/user/reportgc/cmd"

func main() {
	cmd.Execute()
}
