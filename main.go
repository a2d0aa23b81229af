package main

import "github.com/naka-gawa/git-issue-extractor/cmd"

func main() {
	cmd.Execute()
}
