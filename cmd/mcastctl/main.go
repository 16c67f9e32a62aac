// mcastctl exercises every mcastkit keyword group from the command
// line. See the root command help for the subcommand list.
package main

func main() {
	Execute()
}
