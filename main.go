package main

import "github.com/KaramelBytes/campaignlens/cmd"

func main() {
	cmd.Execute()
}
