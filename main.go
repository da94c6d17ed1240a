package main

import "github.com/KaramelBytes/gotystats/cmd"

func main() {
	cmd.Execute()
}
