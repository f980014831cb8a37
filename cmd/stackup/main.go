/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package main

import "github.com/adhikarS/stackup/pkg/cli"

func main() {
	cli.Execute()
}
