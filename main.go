package main

import "github.com/frahmantamala/customer-onboarding/cmd"

func main() {
	cmd.Execute()
}
