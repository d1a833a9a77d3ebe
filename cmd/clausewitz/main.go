// Clausewitz reads and checks the clausal brace files used by Paradox
// grand strategy games.
//
// Usage:
//
//	# Print a file in canonical form, or as YAML
//	clausewitz parse common/defines.txt
//	clausewitz parse --format yaml history/provinces/1\ -\ Uppland.txt
//
//	# Check every file under a mod directory
//	clausewitz check mod/
//
//	# Re-check files as they change, serving metrics
//	clausewitz watch mod/ --metrics-addr 127.0.0.1:9464
//
//	# Summarize a plain-text save
//	clausewitz save autosave.eu4 --country SWE
//
//	# Create clausewitz.yaml and configuration.txt
//	clausewitz init mymod
package main

func main() {
	Execute()
}
