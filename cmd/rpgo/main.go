// Command rpgo estimates the earliest age at which savings can fund
// retirement under frugal, content and luxury lifestyles.
package main

func main() {
	Execute()
}
