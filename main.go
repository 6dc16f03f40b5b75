package main

import "youthworks-db/cmd"

func main() {
	cmd.Execute()
}
