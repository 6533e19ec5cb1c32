// Package main provides the toastd command.
package main

func main() {
	Execute()
}
