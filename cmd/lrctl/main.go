// Command lrctl exercises the lrmichael allocator from the command line:
// a concurrency benchmark and a size-class table dump. It deliberately
// prints no live occupancy or fragmentation statistics.
package main

func main() {
	execute()
}
