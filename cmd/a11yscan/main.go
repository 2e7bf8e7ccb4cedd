// Command a11yscan runs WCAG accessibility scans against HTML pages,
// from the command line or as a queue-based worker.
package main

func main() {
	Execute()
}
