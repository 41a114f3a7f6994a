// Package main provides the search_relay command line client.
package main

func main() {
	Execute()
}
