// SPDX-License-Identifier: MPL-2.0

package main

import cmd "matrun/cmd/matrun"

func main() {
	cmd.Execute()
}
