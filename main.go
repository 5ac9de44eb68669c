package main

import "search-sync/cmd"

func main() {
	cmd.Execute()
}
