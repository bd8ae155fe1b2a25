package main

import "gitlab.com/paramountdax-exchange/distribution_api/cmd"

func main() {
	cmd.Execute()
}
