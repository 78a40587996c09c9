package main

import "github.com/KaramelBytes/anova-cli/cmd"

func main() {
	cmd.Execute()
}
