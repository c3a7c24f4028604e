package main

import "github.com/Manu343726/rtasm/cmd"

func main() {
	cmd.Execute()
}
