package main

import "github.com/frahmantamala/project-management/cmd"

func main() {
	cmd.Execute()
}
