package main

import "github.com/frahmantamala/roster-management/cmd"

func main() {
	cmd.Execute()
}
