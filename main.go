package main

import "github.com/Pjt727/cample/cmd"

func main() {
	cmd.Execute()
}
